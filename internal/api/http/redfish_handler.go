package apihttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bmc-redfish/internal/audit"
	"bmc-redfish/internal/auth"
	"bmc-redfish/internal/observability/metrics"
	"bmc-redfish/internal/redfish"
	"bmc-redfish/internal/snapshot"
)

const (
	resultNotFound         = "not_found"
	resultMethodNotAllowed = "method_not_allowed"
)

// RedfishHandler serves the /redfish/v1 resource tree. Every request
// re-reads the snapshot source; the handler holds no state of its own.
type RedfishHandler struct {
	source    snapshot.Source
	projector *redfish.Projector
	auditor   audit.Logger
}

// NewRedfishHandler constructs a RedfishHandler. The auditor is optional.
func NewRedfishHandler(source snapshot.Source, projector *redfish.Projector, auditor audit.Logger) (*RedfishHandler, error) {
	if source == nil {
		return nil, errors.New("redfish handler: nil source")
	}
	if projector == nil {
		return nil, errors.New("redfish handler: nil projector")
	}
	return &RedfishHandler{source: source, projector: projector, auditor: auditor}, nil
}

// ServeHTTP routes /redfish/v1 requests.
func (h *RedfishHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	resource, result := h.route(w, r)
	metrics.ObserveRedfishRequest(resource, result, time.Since(start))
}

func (h *RedfishHandler) route(w http.ResponseWriter, r *http.Request) (string, string) {
	path := r.URL.Path

	switch path {
	case redfish.PathServiceRoot, "/redfish/v1":
		return "service_root", h.serveStatic(w, r, h.projector.ServiceRoot())
	case redfish.PathChassisCollection:
		return "chassis_collection", h.serveStatic(w, r, h.projector.ChassisCollection())
	case redfish.PathChassis:
		return "chassis", h.serveDeviceState(w, r, func(state snapshot.DeviceState) any {
			return h.projector.Chassis(state)
		})
	case redfish.PathThermal:
		return "thermal", h.serveDeviceState(w, r, func(state snapshot.DeviceState) any {
			return h.projector.Thermal(state)
		})
	case redfish.PathPower:
		return "power", h.serveDeviceState(w, r, func(state snapshot.DeviceState) any {
			return h.projector.Power(state)
		})
	case redfish.PathSensors:
		return "sensors", h.serveDeviceState(w, r, func(state snapshot.DeviceState) any {
			return h.projector.Sensors(state)
		})
	case redfish.PathManagerCollection:
		return "manager_collection", h.serveStatic(w, r, h.projector.ManagerCollection())
	case redfish.PathManager:
		return "manager", h.serveStatic(w, r, h.projector.Manager())
	case redfish.PathLogServices:
		return "log_services", h.serveStatic(w, r, h.projector.LogServices())
	case redfish.PathSELService:
		return "sel_service", h.serveStatic(w, r, h.projector.SELService())
	case redfish.PathSELEntries:
		return "sel_entries", h.serveEntries(w, r)
	case redfish.PathSecureBootVerify:
		return "secure_boot_verify", h.serveSecureBootVerify(w, r)
	}

	if strings.HasPrefix(path, redfish.PathSELEntries+"/") {
		return "sel_entry", h.serveEntry(w, r, strings.TrimPrefix(path, redfish.PathSELEntries+"/"))
	}

	w.WriteHeader(http.StatusNotFound)
	return "unknown", resultNotFound
}

// serveStatic serves resources with no snapshot dependency.
func (h *RedfishHandler) serveStatic(w http.ResponseWriter, r *http.Request, doc any) string {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return resultMethodNotAllowed
	}
	writeJSON(w, doc)
	return metrics.ResultSuccess
}

// serveDeviceState re-reads the device snapshot and serves one projection
// of it. Schema drift fails this request only; a missing source has
// already degraded to the default snapshot inside the reader.
func (h *RedfishHandler) serveDeviceState(w http.ResponseWriter, r *http.Request, project func(snapshot.DeviceState) any) string {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return resultMethodNotAllowed
	}
	state, err := h.source.ReadDeviceState(r.Context())
	if err != nil {
		http.Error(w, "device snapshot invalid", http.StatusInternalServerError)
		return metrics.ResultError
	}
	writeJSON(w, project(state))
	return metrics.ResultSuccess
}

func (h *RedfishHandler) serveEntries(w http.ResponseWriter, r *http.Request) string {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return resultMethodNotAllowed
	}
	sel, err := h.source.ReadEventLog(r.Context())
	if err != nil {
		http.Error(w, "event log invalid", http.StatusInternalServerError)
		return metrics.ResultError
	}
	writeJSON(w, h.projector.SELEntries(sel))
	return metrics.ResultSuccess
}

func (h *RedfishHandler) serveEntry(w http.ResponseWriter, r *http.Request, rawID string) string {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return resultMethodNotAllowed
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return resultNotFound
	}
	sel, err := h.source.ReadEventLog(r.Context())
	if err != nil {
		http.Error(w, "event log invalid", http.StatusInternalServerError)
		return metrics.ResultError
	}
	entry, ok := h.projector.SELEntry(sel, id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return resultNotFound
	}
	writeJSON(w, entry)
	return metrics.ResultSuccess
}

// serveSecureBootVerify re-reads the stored secure-boot result and
// reports it. It does not start a new verification pass.
func (h *RedfishHandler) serveSecureBootVerify(w http.ResponseWriter, r *http.Request) string {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return resultMethodNotAllowed
	}
	state, err := h.source.ReadDeviceState(r.Context())
	if err != nil {
		http.Error(w, "device snapshot invalid", http.StatusInternalServerError)
		return metrics.ResultError
	}
	result := h.projector.SecureBootVerify(state)
	h.auditVerify(r, result)
	writeJSON(w, result)
	return metrics.ResultSuccess
}

func (h *RedfishHandler) auditVerify(r *http.Request, result redfish.SecureBootResult) {
	if h.auditor == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		payload = nil
	}
	_ = h.auditor.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Action:       "secureboot.verify",
		ResourceType: "Manager",
		ResourceID:   "1",
		Metadata:     payload,
		IP:           r.RemoteAddr,
		UserAgent:    r.UserAgent(),
	})
}

func writeJSON(w http.ResponseWriter, doc any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(doc)
}
