/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package config loads and validates the detector's runtime
// configuration document: which endpoints to monitor, where the CNC
// and Tor models live, the anomaly thresholds and optional warm-start
// priors, and where output is written. The document is plain JSON
// authored by an operator, so it is decoded with the standard library
// rather than the streaming goccy/go-json decoder used for the
// higher-volume model and report payloads elsewhere in this tree.
package config

import (
	"encoding/json"
	"os"

	"github.com/danielpoliakov/bota/internal/boerr"
	"github.com/danielpoliakov/bota/internal/filter"
)

// FilterValue is the filter's polymorphic "value" key: a JSON array
// for ip_list/mac_list, or a single JSON string for ip_range's CIDR
// literal. Both decode to a []string so callers have one shape to
// range over.
type FilterValue []string

func (v *FilterValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = []string{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*v = list
	return nil
}

// FilterConfig selects which endpoints the monitor tracks. Value holds
// the ip_list/mac_list membership set, or the single CIDR literal for
// an ip_range filter.
type FilterConfig struct {
	Type  string      `json:"type"`
	Value FilterValue `json:"value,omitempty"`
}

// AnomalyConfig carries the fixed trigger thresholds for the four
// anomaly classifiers.
type AnomalyConfig struct {
	Bytes   float64 `json:"bytes"`
	Packets float64 `json:"packets"`
	DstIP   float64 `json:"dst_ip"`
	DstPort float64 `json:"dst_port"`
}

// PriorConfig optionally warm-starts the anomaly classifiers' smoothers
// with synthetic Poisson traffic before any real traffic is observed.
type PriorConfig struct {
	Bytes   float64 `json:"bytes"`
	Packets float64 `json:"packets"`
	DstIP   float64 `json:"dst_ip"`
	DstPort float64 `json:"dst_port"`
}

// ModelConfig points at the CNC and Tor model artifacts and carries
// the anomaly/prior tuning.
type ModelConfig struct {
	CNC       string        `json:"cnc"`
	Tor       string        `json:"tor"`
	TorReload bool          `json:"tor_reload"`
	Anomaly   AnomalyConfig `json:"anomaly"`
	Prior     *PriorConfig  `json:"prior,omitempty"`
}

// OutputConfig names the two append-only report destinations.
type OutputConfig struct {
	Detail string `json:"detail"`
	IDEA   string `json:"idea"`
}

// LogConfig configures the ambient structured logger, independent of
// the detection model itself. Remote, if set, is a "host:port" UDP
// syslog relay that receives every log line in addition to the
// primary stdout/File destination.
type LogConfig struct {
	Level  string `json:"level"`
	File   string `json:"file"`
	Remote string `json:"remote,omitempty"`
}

// InterfaceConfig names one physical flow-record source and the record
// kind it produces. The wire protocol is not self-describing per
// record, so the kind is assigned per interface, not read back out of
// each record.
type InterfaceConfig struct {
	Interface string `json:"interface"`
	Type      string `json:"type"`
}

// Config is the full runtime configuration document.
type Config struct {
	Filter     FilterConfig      `json:"filter"`
	Model      ModelConfig       `json:"model"`
	Output     OutputConfig      `json:"output"`
	Log        LogConfig         `json:"log"`
	Interfaces []InterfaceConfig `json:"interfaces"`
}

// Load reads and validates the configuration document at path.
// Returns boerr.LoadFailure if the file cannot be read or parsed, and
// boerr.BadInput if it parses but fails validation.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, boerr.LoadFailure
	}

	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, boerr.LoadFailure
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// BuildFilter constructs the membership filter described by
// c.Filter. Assumes c has already passed Load's validation.
func (c *Config) BuildFilter() (filter.Filter, error) {
	switch c.Filter.Type {
	case "ip_list":
		return filter.NewIPListFilter(c.Filter.Value), nil
	case "mac_list":
		return filter.NewMACListFilter(c.Filter.Value), nil
	case "ip_range":
		return filter.NewIPRangeFilter(c.Filter.Value[0])
	default:
		return nil, boerr.BadInput
	}
}

func (c *Config) validate() error {
	switch c.Filter.Type {
	case "ip_list", "mac_list":
		if len(c.Filter.Value) == 0 {
			return boerr.BadInput
		}
	case "ip_range":
		if len(c.Filter.Value) == 0 || c.Filter.Value[0] == "" {
			return boerr.BadInput
		}
	default:
		return boerr.BadInput
	}
	if c.Model.CNC == "" || c.Model.Tor == "" {
		return boerr.BadInput
	}
	if c.Output.Detail == "" || c.Output.IDEA == "" {
		return boerr.BadInput
	}
	if len(c.Interfaces) == 0 {
		return boerr.BadInput
	}
	for _, iface := range c.Interfaces {
		if iface.Interface == "" || iface.Type == "" {
			return boerr.BadInput
		}
	}
	return nil
}
