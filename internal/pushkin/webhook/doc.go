// Package webhook implements a delivery backend that forwards
// notifications to an HTTP endpoint.
//
// App configuration:
//
//	apps:
//	  com.example.app:
//	    type: webhook
//	    url: https://push.example.com/notify
//	    timeout_seconds: "15"
//
// Each delivery POSTs {"notification": ...} with a unique
// X-Sygnal-Delivery-ID header; the remote answers {"rejected": [...]}
// naming pushkeys it permanently refuses. Rejections are recorded in the
// rejection log and returned to the dispatch engine.
package webhook
