package apihttp

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strings"

	"bmc-redfish/internal/export"
	"bmc-redfish/internal/observability/metrics"
	"bmc-redfish/internal/redfish"
	"bmc-redfish/internal/snapshot"
)

// ExportHandler serves SEL exports under /api/v1/exports/.
type ExportHandler struct {
	source    snapshot.Source
	projector *redfish.Projector
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(source snapshot.Source, projector *redfish.Projector) (*ExportHandler, error) {
	if source == nil {
		return nil, errors.New("export handler: nil source")
	}
	if projector == nil {
		return nil, errors.New("export handler: nil projector")
	}
	return &ExportHandler{source: source, projector: projector}, nil
}

// ServeHTTP handles GET /api/v1/exports/sel.{csv,xlsx,pdf}.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	format := strings.TrimPrefix(r.URL.Path, "/api/v1/exports/sel.")
	switch format {
	case "csv", "xlsx", "pdf":
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}

	sel, err := h.source.ReadEventLog(r.Context())
	if err != nil {
		metrics.IncExport(format, metrics.ResultError)
		http.Error(w, "event log invalid", http.StatusInternalServerError)
		return
	}
	state, err := h.source.ReadDeviceState(r.Context())
	if err != nil {
		metrics.IncExport(format, metrics.ResultError)
		http.Error(w, "device snapshot invalid", http.StatusInternalServerError)
		return
	}

	entries := h.projector.SELEntries(sel).Members
	health := redfish.OverallHealth(state.Sensors)

	switch format {
	case "csv":
		h.writeCSV(w, entries)
	case "xlsx":
		data, err := export.BuildSELXLSX(health, entries)
		if err != nil {
			metrics.IncExport(format, metrics.ResultError)
			http.Error(w, "export error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="sel.xlsx"`)
		_, _ = w.Write(data)
	case "pdf":
		data, err := export.BuildSELPDF(health, entries)
		if err != nil {
			metrics.IncExport(format, metrics.ResultError)
			http.Error(w, "export error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="sel.pdf"`)
		_, _ = w.Write(data)
	}
	metrics.IncExport(format, metrics.ResultSuccess)
}

func (h *ExportHandler) writeCSV(w http.ResponseWriter, entries []redfish.LogEntryMember) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"id", "created", "severity", "source", "message"})
	for _, entry := range entries {
		source := ""
		if len(entry.MessageArgs) > 0 {
			source = entry.MessageArgs[0]
		}
		_ = writer.Write([]string{entry.ID, entry.Created, entry.Severity, source, entry.Message})
	}
	writer.Flush()
}
