package customers

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=customers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/brightpixel/studiosite/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type customerRepo interface {
	Add(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (*Customer, error)
	List(ctx context.Context) ([]*Customer, error)
}

type Handler struct {
	repo customerRepo
}

func NewHandler(repo customerRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	router := mainRouter.PathPrefix("/api/admin/customers").Subrouter()
	router.HandleFunc("", handler.handleList).Methods("GET").Name("admin-customers-list")
	router.HandleFunc("", handler.handleAdd).Methods("POST", "OPTIONS").Name("admin-customers-add")
	router.HandleFunc("/{id}", handler.handleGet).Methods("GET").Name("admin-customers-get")
	router.HandleFunc("/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("admin-customers-update")
	router.HandleFunc("/{id}", handler.handleDelete).Methods("DELETE").Name("admin-customers-delete")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	customers, err := handler.repo.List(r.Context())
	if err != nil {
		log.Errorf("list customers: %s", err)
		http.Error(w, "failed to get customers", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, customers)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromVars(w, r)
	if !ok {
		return
	}

	customer, err := handler.repo.Get(r.Context(), id)
	if err != nil {
		writeRepoError(w, "get", id, err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, customer)
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	customer, ok := decodeCustomer(w, r)
	if !ok {
		return
	}

	if err := handler.repo.Add(r.Context(), customer); err != nil {
		writeRepoError(w, "add", 0, err)
		return
	}

	log.Tracef("new customer %d added", customer.ID)
	pkg.WriteJSON(w, http.StatusCreated, customer)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromVars(w, r)
	if !ok {
		return
	}
	customer, ok := decodeCustomer(w, r)
	if !ok {
		return
	}

	customer.ID = id
	if err := handler.repo.Update(r.Context(), customer); err != nil {
		writeRepoError(w, "update", id, err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, customer)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromVars(w, r)
	if !ok {
		return
	}

	if err := handler.repo.Delete(r.Context(), id); err != nil {
		writeRepoError(w, "delete", id, err)
		return
	}
	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%d", id))
}

func writeRepoError(w http.ResponseWriter, op string, id int, err error) {
	switch {
	case errors.Is(err, ErrCustomerNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidCustomer):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrCustomerHasInvoices):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Errorf("%s customer %d: %s", op, id, err)
		http.Error(w, fmt.Sprintf("%s customer failed", op), http.StatusInternalServerError)
	}
}

func decodeCustomer(w http.ResponseWriter, r *http.Request) (*Customer, bool) {
	customer := &Customer{}
	if pkg.IsJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(customer); err != nil {
			log.Debugf("customer, unmarshal json params: %s", err)
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return nil, false
		}
		return customer, true
	}

	if err := pkg.ParseFormBody(r); err != nil {
		log.Debugf("customer, parse form error: %s", err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return nil, false
	}
	customer.Name = r.PostFormValue("name")
	customer.Email = r.PostFormValue("email")
	customer.Phone = r.PostFormValue("phone")
	customer.Company = r.PostFormValue("company")
	customer.Notes = r.PostFormValue("notes")
	return customer, true
}

func idFromVars(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		http.Error(w, "error, invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
