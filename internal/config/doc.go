// Package config provides configuration management for covidchart.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Command-line flags (applied by cmd/covidchart)
//	2. Environment variables
//	3. YAML configuration file
//	4. Default values
//
// # Environment Variables
//
// All environment variables use the COVID_ prefix followed by the section
// and field name:
//
//	COVID_LOGGING_LEVEL=debug
//	COVID_DATASET_REPO_PATH=/data/jhu
//	COVID_DATASET_METRIC=Deaths
//	COVID_CHART_FORMAT=svg
//	COVID_EXPORT_FORMATS=csv,xlsx
//
// # Configuration File
//
// The YAML file is read from COVID_CONFIG_FILE, covidchart.yaml or
// configs/covidchart.yaml, whichever is found first:
//
//	dataset:
//	  repo_path: /data/jhu
//	  start_date: 06-01-2020
//	  country: US
//	  state: Florida
//	chart:
//	  y_label: New cases
//
// # Paths
//
// GetPaths resolves the dataset clone, its daily report directory, the
// output directory and the log file to absolute paths.
package config
