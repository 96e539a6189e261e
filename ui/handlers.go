package ui

import (
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"gazecenter/app"
	"gazecenter/domain/core"
	"gazecenter/domain/gaze"
	"gazecenter/internal/api"
	"gazecenter/internal/errors"
	"gazecenter/internal/render"
	"gazecenter/internal/report"
	"gazecenter/ports"
)

type indexData struct {
	Participants []core.ParticipantID
	Selected     core.ParticipantID
	Source       string
	Device       gaze.DeviceProfile
	Radius       float64
	MinRadius    float64
	MaxRadius    float64
	RadiusStep   float64
	LoadError    string
}

// handleIndex renders the dashboard page
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		Source:     a.service.Source(),
		Device:     a.service.Device(),
		Radius:     a.config.DefaultRadiusDeg,
		MinRadius:  gaze.MinRadiusDeg,
		MaxRadius:  gaze.MaxRadiusDeg,
		RadiusStep: gaze.RadiusStepDeg,
	}

	ids, err := a.service.Participants(r.Context())
	if err != nil {
		// The page still renders so uploads keep working
		a.logger.Warn("failed to list participants: %v", err)
		data.LoadError = err.Error()
	}
	data.Participants = ids
	if len(ids) > 0 {
		data.Selected = ids[0]
	}

	a.renderTemplate(w, "index.html", data)
}

// handleChart renders one chart. Each request reloads from the raw source.
func (a *App) handleChart(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	req, err := a.chartRequest(r)
	if err != nil {
		a.chartError(w, err)
		return
	}

	analysis, err := a.service.Analyze(r.Context(), req)
	if err != nil {
		a.chartError(w, err)
		return
	}
	png, err := render.Render(kind, analysis, render.DefaultOptions())
	if err != nil {
		a.chartError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

func (a *App) chartRequest(r *http.Request) (app.AnalysisRequest, error) {
	q := r.URL.Query()
	radius, err := api.ParseRadius(q.Get("radius"), a.config.DefaultRadiusDeg)
	if err != nil {
		return app.AnalysisRequest{}, err
	}

	req := app.AnalysisRequest{Scope: chi.URLParam(r, "scope"), RadiusDeg: radius, Quiet: true}
	if raw := q.Get("participant"); raw != "" {
		id, err := core.ParseParticipantID(raw)
		if err != nil {
			return req, errors.WithCode(errors.CodeInvalidInput, err)
		}
		req.ParticipantID = id
	}
	if raw := q.Get("upload"); raw != "" {
		id, err := core.ParseUploadID(raw)
		if err != nil {
			return req, errors.WithCode(errors.CodeInvalidInput, err)
		}
		req.UploadID = id
	}
	return req, nil
}

func (a *App) chartError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("chart: %v", err)
	}
	http.Error(w, err.Error(), status)
}

// handleUpload validates and stores an uploaded recording
func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	filename, payload, err := api.ReadUpload(w, r, a.config.UploadMaxBytes)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	upload, samples, err := a.service.StoreUpload(filename, payload)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"upload_id": upload.ID,
		"filename":  upload.Filename,
		"samples":   samples,
	})
}

type reportData struct {
	Radius float64
	Body   template.HTML
}

// handleReport renders the markdown report of every participant as HTML
func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	radius, err := api.ParseRadius(r.URL.Query().Get("radius"), a.config.DefaultRadiusDeg)
	if err != nil {
		http.Error(w, err.Error(), errors.HTTPStatus(err))
		return
	}

	analyses, failures, err := a.service.AnalyzeAll(r.Context(), radius)
	if err != nil {
		http.Error(w, err.Error(), errors.HTTPStatus(err))
		return
	}
	md := report.Build(report.Report{
		Source:      a.service.Source(),
		RadiusDeg:   radius,
		GeneratedAt: time.Now(),
		Analyses:    analyses,
		Failures:    failures,
	})

	a.renderTemplate(w, "report.html", reportData{
		Radius: radius,
		Body:   template.HTML(report.HTML(md)),
	})
}

// chartURLs builds the chart links for one scope and parameter set
func chartURLs(scope string, participant core.ParticipantID, upload core.UploadID, radius float64) map[string]string {
	q := url.Values{}
	q.Set("radius", strconv.FormatFloat(radius, 'f', -1, 64))
	if scope == ports.ScopeIndividual {
		if participant != "" {
			q.Set("participant", participant.String())
		}
		if upload != "" {
			q.Set("upload", upload.String())
		}
	}
	return map[string]string{
		render.KindScatter:   "/charts/" + scope + "/" + render.KindScatter + ".png?" + q.Encode(),
		render.KindHistogram: "/charts/" + scope + "/" + render.KindHistogram + ".png?" + q.Encode(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, err error) {
	writeJSON(w, errors.HTTPStatus(err), map[string]string{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
