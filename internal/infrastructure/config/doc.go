// Package config handles loading and validating sygnal configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Sensitive values (tokens, auth secrets) should be set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - No runtime overhead after initial load
//
// Usage:
//
//	cfg, err := config.Load("configs/sygnal.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Gateway.Port)
//
// The apps section maps application identifiers to backend configuration;
// the reserved field "type" names the backend kind for that app_id:
//
//	apps:
//	  com.example.app:
//	    type: webhook
//	    url: https://push.example.com/notify
package config
