package handlers

import "finitefield.org/aire-web/internal/config"

// Analytics holds client instrumentation configuration surfaced to templates.
type Analytics struct {
    GA4MeasurementID string // e.g. G-XXXXXXXXXX
    GTMContainerID   string // e.g. GTM-XXXXXXX
    Debug            bool
}

// Enabled reports whether any tag should be emitted.
func (a Analytics) Enabled() bool { return a.GA4MeasurementID != "" || a.GTMContainerID != "" }

// AnalyticsFromConfig copies the analytics block of cfg.
func AnalyticsFromConfig(cfg config.Analytics) Analytics {
    return Analytics{
        GA4MeasurementID: cfg.GA4MeasurementID,
        GTMContainerID:   cfg.GTMContainerID,
        Debug:            cfg.Debug,
    }
}
