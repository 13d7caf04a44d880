// Package config provides configuration management for linkscan.
package config
