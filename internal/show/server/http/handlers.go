package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Ronniet1977/CamperShowBackup/internal/pkg/util"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/core"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/core/model"
	"github.com/Ronniet1977/CamperShowBackup/internal/show/core/service"
	"github.com/Ronniet1977/CamperShowBackup/pkg/log"
)

type handler struct {
	svc    *service.Service
	logger log.Logger
}

func (h *handler) importUnits(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	count, err := h.svc.ImportUnits(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": count})
}

func (h *handler) listUnits(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.List())
}

func (h *handler) getUnit(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handler) updateUnit(w http.ResponseWriter, r *http.Request) {
	var in model.Unit
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.svc.UpdateUnit(mux.Vars(r)["id"], &in); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) assignUnit(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Driver string `json:"driver"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.svc.AssignOne(mux.Vars(r)["id"], in.Driver); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) classifyUnit(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.svc.ClassifyUnit(mux.Vars(r)["id"], model.ParseUnitType(in.Type)); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) pickupUnit(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.MarkPickedUp(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) deliverUnit(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.MarkDelivered(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) setInventoried(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Inventoried bool `json:"inventoried"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.svc.SetInventoried(mux.Vars(r)["id"], in.Inventoried); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) setPhoto(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.svc.SetPhotoRef(mux.Vars(r)["id"], in.Path); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) runAssignment(w http.ResponseWriter, _ *http.Request) {
	result, err := h.svc.RunAssignment()
	if err != nil {
		var blocked *core.MissingTypeError
		if errors.As(err, &blocked) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":    blocked.Error(),
				"blocking": blocked.Units,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) unassignUnpicked(w http.ResponseWriter, _ *http.Request) {
	if err := h.svc.UnassignUnpicked(); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listDrivers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Drivers())
}

func (h *handler) addDriver(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name           string `json:"name"`
		BumperPullOnly bool   `json:"bumperPullOnly"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
		writeError(w, http.StatusBadRequest, errors.New("driver name is required"))
		return
	}
	if err := h.svc.AddDriver(in.Name, in.BumperPullOnly); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) registerDriver(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
		writeError(w, http.StatusBadRequest, errors.New("driver name is required"))
		return
	}
	added, err := h.svc.RegisterDriver(in.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"added": added})
}

func (h *handler) removeDriver(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveDriver(mux.Vars(r)["name"]); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) snapshot(w http.ResponseWriter, _ *http.Request) {
	writeCSV(w, h.svc.Snapshot())
}

func (h *handler) exportAssignments(w http.ResponseWriter, _ *http.Request) {
	writeCSV(w, h.svc.ExportAssignments())
}

func (h *handler) exportInventory(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(h.svc.InventoryExport())
}

func (h *handler) summaryByDriver(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.SummaryByDriver())
}

func (h *handler) summaryByLocation(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.SummaryByLocation())
}

func (h *handler) totals(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Totals())
}

func (h *handler) rounds(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"rounds":          h.svc.Rounds(),
		"completedRounds": h.svc.CompletedRounds(),
	})
}

func (h *handler) endShow(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.svc.EndShow(in.Name); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) refresh(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.RefreshFromRemote(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"units": count})
}

func statusFor(err error) int {
	if errors.Is(err, util.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("Failed to encode response", "err", err.Error())
	}
}

func writeCSV(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
