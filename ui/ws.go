package ui

import (
	"net/http"

	"github.com/gorilla/websocket"

	"gazecenter/app"
	"gazecenter/domain/core"
	"gazecenter/domain/gaze"
	"gazecenter/internal/errors"
	"gazecenter/ports"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ParamsMessage carries the dashboard inputs. The client sends one on every
// change.
type ParamsMessage struct {
	ParticipantID string  `json:"participant_id"`
	UploadID      string  `json:"upload_id"`
	RadiusDeg     float64 `json:"center_radius_deg"`
}

// ScopeResponse is the outcome of one scope for one parameter set
type ScopeResponse struct {
	Type    string             `json:"type"` // "result" or "error"
	Scope   string             `json:"scope"`
	Label   string             `json:"label,omitempty"`
	Region  *gaze.CenterRegion `json:"region,omitempty"`
	Summary *gaze.Summary      `json:"summary,omitempty"`
	Charts  map[string]string  `json:"charts,omitempty"`
	Message string             `json:"message,omitempty"`
	Code    string             `json:"code,omitempty"`
}

// handleWS binds dashboard inputs to outputs. Every message re-runs both
// scopes; a failure in one is reported for that scope only.
func (a *App) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Warn("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	for {
		var msg ParamsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				a.logger.Warn("websocket error: %v", err)
			}
			return
		}

		for _, resp := range a.evaluate(r, msg) {
			if err := conn.WriteJSON(resp); err != nil {
				a.logger.Warn("websocket write error: %v", err)
				return
			}
		}
	}
}

// evaluate analyzes the individual and aggregate scopes independently
func (a *App) evaluate(r *http.Request, msg ParamsMessage) []ScopeResponse {
	radius := msg.RadiusDeg
	if radius == 0 {
		radius = a.config.DefaultRadiusDeg
	}
	radius, err := gaze.SnapRadius(radius)
	if err != nil {
		err = errors.WithCode(errors.CodeInvalidInput, err)
		return []ScopeResponse{scopeError(ports.ScopeIndividual, err), scopeError(ports.ScopeAggregate, err)}
	}

	individual := app.AnalysisRequest{Scope: ports.ScopeIndividual, RadiusDeg: radius}
	var inputErr error
	if msg.ParticipantID != "" {
		individual.ParticipantID, inputErr = core.ParseParticipantID(msg.ParticipantID)
	}
	if inputErr == nil && msg.UploadID != "" {
		individual.UploadID, inputErr = core.ParseUploadID(msg.UploadID)
	}

	out := make([]ScopeResponse, 0, 2)
	if inputErr != nil {
		out = append(out, scopeError(ports.ScopeIndividual, errors.WithCode(errors.CodeInvalidInput, inputErr)))
	} else {
		out = append(out, a.scopeResult(r, individual))
	}
	out = append(out, a.scopeResult(r, app.AnalysisRequest{Scope: ports.ScopeAggregate, RadiusDeg: radius}))
	return out
}

func (a *App) scopeResult(r *http.Request, req app.AnalysisRequest) ScopeResponse {
	analysis, err := a.service.Analyze(r.Context(), req)
	if err != nil {
		return scopeError(req.Scope, err)
	}
	return ScopeResponse{
		Type:    "result",
		Scope:   req.Scope,
		Label:   analysis.Label,
		Region:  &analysis.Region,
		Summary: &analysis.Summary,
		Charts:  chartURLs(req.Scope, req.ParticipantID, req.UploadID, analysis.Region.RadiusDeg),
	}
}

func scopeError(scope string, err error) ScopeResponse {
	return ScopeResponse{
		Type:    "error",
		Scope:   scope,
		Message: err.Error(),
		Code:    errors.GetCode(err),
	}
}
