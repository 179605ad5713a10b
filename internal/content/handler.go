package content

import (
	"net/http"

	"github.com/brightpixel/studiosite/pkg"

	"github.com/gorilla/mux"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	if catalog == nil {
		catalog = EmptyCatalog()
	}
	return &Handler{
		catalog: catalog,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	router := mainRouter.PathPrefix("/api").Subrouter()
	router.HandleFunc("/services", handler.handleServices).Methods("GET").Name("services")
	router.HandleFunc("/services/{slug}", handler.handleService).Methods("GET").Name("service")
	router.HandleFunc("/locations", handler.handleLocations).Methods("GET").Name("locations")
	router.HandleFunc("/locations/{slug}", handler.handleLocation).Methods("GET").Name("location")
}

func (handler *Handler) handleServices(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, http.StatusOK, handler.catalog.Services)
}

func (handler *Handler) handleService(w http.ResponseWriter, r *http.Request) {
	s, ok := handler.catalog.Service(mux.Vars(r)["slug"])
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, s)
}

func (handler *Handler) handleLocations(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, http.StatusOK, handler.catalog.Locations)
}

func (handler *Handler) handleLocation(w http.ResponseWriter, r *http.Request) {
	l, ok := handler.catalog.Location(mux.Vars(r)["slug"])
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, l)
}
