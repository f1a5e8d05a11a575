package api

import (
	"errors"
	"net/http"

	"github.com/atharv3903/logiroute/internal/model"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate = validator.New()
	trans    ut.Translator
)

func init() {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
}

// RouteRequest names two locations. Identifiers are matched exactly.
type RouteRequest struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

func (req *RouteRequest) Bind(r *http.Request) error {
	return nil
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, model.RootResponse{
		Message:       s.cfg.AppName + " API",
		Version:       s.cfg.AppVersion,
		Documentation: "/api/v1",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, model.HealthResponse{Status: "healthy", Service: s.cfg.AppName})
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	data := &RouteRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := validate.Struct(data); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			render.Render(w, r, ErrInvalidRequest(err))
			return
		}
		render.Render(w, r, ErrValidation(err, translateError(verrs)))
		return
	}

	route, hit, err := s.svc.CalculateRoute(r.Context(), data.Start, data.End)
	if err != nil {
		render.Render(w, r, ErrRoute(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, model.RouteResponse{
		Path:          route.Path,
		TotalDistance: route.Distance,
		NodesVisited:  route.NodesVisited,
		CacheHit:      hit,
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.svc.GraphInfo())
}

func translateError(verrs validator.ValidationErrors) []string {
	out := make([]string, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, e.Translate(trans))
	}
	return out
}
