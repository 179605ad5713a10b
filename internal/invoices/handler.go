package invoices

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/brightpixel/studiosite/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type statusRequest struct {
	Status string `json:"status"`
}

type Handler struct {
	service *Service
	now     func() time.Time
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
		now:     time.Now,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	router := mainRouter.PathPrefix("/api/admin/invoices").Subrouter()
	router.HandleFunc("", handler.handleList).Methods("GET").Name("admin-invoices-list")
	router.HandleFunc("", handler.handleCreate).Methods("POST", "OPTIONS").Name("admin-invoices-create")
	router.HandleFunc("/export", handler.handleExport).Methods("GET").Name("admin-invoices-export")
	router.HandleFunc("/{id:[0-9]+}", handler.handleGet).Methods("GET").Name("admin-invoices-get")
	router.HandleFunc("/{id:[0-9]+}/status", handler.handleChangeStatus).Methods("PUT", "OPTIONS").Name("admin-invoices-status")
	router.HandleFunc("/{id:[0-9]+}", handler.handleDelete).Methods("DELETE").Name("admin-invoices-delete")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	invoices, err := handler.service.List(r.Context())
	if err != nil {
		log.Errorf("list invoices: %s", err)
		http.Error(w, "failed to get invoices", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, invoices)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromVars(w, r)
	if !ok {
		return
	}

	inv, err := handler.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, "get", id, err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, inv)
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var params NewInvoiceParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Debugf("create invoice, unmarshal json params: %s", err)
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	inv, err := handler.service.Create(r.Context(), params)
	if err != nil {
		writeError(w, "create", 0, err)
		return
	}

	log.Tracef("invoice %s created", inv.Number)
	pkg.WriteJSON(w, http.StatusCreated, inv)
}

func (handler *Handler) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromVars(w, r)
	if !ok {
		return
	}

	var statusReq statusRequest
	if pkg.IsJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(&statusReq); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
	} else {
		if err := pkg.ParseFormBody(r); err != nil {
			http.Error(w, "parse form error", http.StatusBadRequest)
			return
		}
		statusReq.Status = r.PostFormValue("status")
	}

	to, err := ParseStatus(statusReq.Status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := handler.service.ChangeStatus(r.Context(), id, to)
	if err != nil {
		writeError(w, "change status of", id, err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, inv)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromVars(w, r)
	if !ok {
		return
	}

	if err := handler.service.Delete(r.Context(), id); err != nil {
		writeError(w, "delete", id, err)
		return
	}
	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%d", id))
}

func (handler *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	// render into a buffer first, so a failure can still become a 500
	var buf bytes.Buffer
	if err := handler.service.Export(r.Context(), &buf); err != nil {
		log.Errorf("export invoices: %s", err)
		http.Error(w, "export invoices failed", http.StatusInternalServerError)
		return
	}

	fileName := fmt.Sprintf("invoices-%s.xlsx", handler.now().UTC().Format("20060102"))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	w.Header().Set("Cache-Control", "no-store")
	pkg.WriteResponseBytesOK(w, pkg.ContentType.XLSX, buf.Bytes())
}

func writeError(w http.ResponseWriter, op string, id int, err error) {
	switch {
	case errors.Is(err, ErrInvoiceNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidInvoice), errors.Is(err, ErrCustomerNotFound):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Errorf("%s invoice %d: %s", op, id, err)
		http.Error(w, fmt.Sprintf("%s invoice failed", op), http.StatusInternalServerError)
	}
}

func idFromVars(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		http.Error(w, "error, invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
