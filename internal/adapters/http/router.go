package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/stratlab/strategic-agent/internal/core/domain"
	"github.com/stratlab/strategic-agent/internal/core/ports"
	"github.com/stratlab/strategic-agent/internal/infrastructure/dataset"
	"github.com/stratlab/strategic-agent/internal/observability/metrics"
)

const (
	serviceName = "strategic-agent-api"

	// noDatasetMarker fills the dataset placeholder when the caller asks
	// for quantitative analysis without uploading data.
	noDatasetMarker = "No dataset provided."

	maxDatasetUploadBytes = 16 << 20
)

type TrafficConfig struct {
	RateLimitRPS          float64
	RateLimitBurst        int
	MaxConcurrentRequests int
}

type Router struct {
	pipeline ports.TensionPipeline
	analyses ports.AnalysisService
	sessions ports.SessionStore
	metrics  *metrics.HTTPServerMetrics
	traffic  TrafficConfig
}

func NewRouter(
	pipeline ports.TensionPipeline,
	analyses ports.AnalysisService,
	sessions ports.SessionStore,
	m *metrics.HTTPServerMetrics,
	traffic TrafficConfig,
) *Router {
	return &Router{
		pipeline: pipeline,
		analyses: analyses,
		sessions: sessions,
		metrics:  m,
		traffic:  traffic,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.Handle("GET /metrics", rt.metrics.Handler())
	mux.HandleFunc("POST /v1/sessions", rt.createSession)
	mux.HandleFunc("GET /v1/sessions/{session_id}", rt.getSession)
	mux.HandleFunc("POST /v1/sessions/{session_id}/tension", rt.runTension)
	mux.HandleFunc("POST /v1/sessions/{session_id}/analyses", rt.runAnalysis)
	mux.HandleFunc("POST /v1/sessions/{session_id}/dataset-analysis", rt.runDatasetAnalysis)

	var handler http.Handler = mux
	handler = rateLimitMiddleware(handler, rt.traffic.RateLimitRPS, rt.traffic.RateLimitBurst)
	handler = backpressureMiddleware(handler, rt.traffic.MaxConcurrentRequests, 50*time.Millisecond)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return rt.metrics.Middleware(serviceName, handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) createSession(w http.ResponseWriter, r *http.Request) {
	session, err := rt.sessions.Create(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (rt *Router) getSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")

	session, err := rt.sessions.Get(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := rt.sessions.ListEntries(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session": session,
		"entries": entries,
	})
}

func (rt *Router) runTension(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")
	if _, err := rt.sessions.Get(r.Context(), sessionID); err != nil {
		writeError(w, err)
		return
	}

	var sc domain.StrategicContext
	if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	start := time.Now()
	artifact, err := rt.pipeline.Run(r.Context(), sessionID, sc)
	if err != nil {
		rt.metrics.RecordPipelineRun(serviceName, "failed", 0, time.Since(start))
		rt.writePipelineError(w, artifact, err)
		return
	}

	rt.metrics.RecordPipelineRun(serviceName, "completed", len(artifact.RetrievedDocuments), artifact.Duration)
	if artifact.RetrievalSkipped {
		rt.metrics.RecordRetrievalSkipped(serviceName, string(artifact.SkippedStage))
	}

	if err := rt.sessions.SaveEntry(r.Context(), sessionID, domain.KeyStrategicTension, artifact.RefinedResult); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artifact)
}

// writePipelineError keeps the draft available to the caller when only the
// final refinement failed.
func (rt *Router) writePipelineError(w http.ResponseWriter, artifact *domain.PipelineArtifact, err error) {
	status := mapErrorToHTTPStatus(err)
	body := map[string]any{"error": errorMessage(err)}

	var pErr *domain.PipelineError
	if errors.As(err, &pErr) {
		body["stage"] = string(pErr.Stage)
		if pErr.Stage == domain.StageRefining && artifact != nil && artifact.InitialDraft != "" {
			body["initial_draft"] = artifact.InitialDraft
		}
	}
	writeJSON(w, status, body)
}

func (rt *Router) runAnalysis(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")

	var req domain.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Type == domain.AnalysisQuantitative {
		if req.Inputs == nil {
			req.Inputs = map[string]string{}
		}
		if strings.TrimSpace(req.Inputs["dataset_profile"]) == "" {
			req.Inputs["dataset_profile"] = noDatasetMarker
		}
	}

	rt.generateAnalysis(w, r, sessionID, req)
}

func (rt *Router) runDatasetAnalysis(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")

	if err := r.ParseMultipartForm(maxDatasetUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	profile, err := dataset.Profile(file, header.Filename)
	if err != nil {
		writeError(w, err)
		return
	}

	rt.generateAnalysis(w, r, sessionID, domain.AnalysisRequest{
		Type: domain.AnalysisQuantitative,
		Inputs: map[string]string{
			"data_questions":  r.FormValue("data_questions"),
			"dataset_profile": profile,
		},
	})
}

func (rt *Router) generateAnalysis(w http.ResponseWriter, r *http.Request, sessionID string, req domain.AnalysisRequest) {
	result, err := rt.analyses.Generate(r.Context(), sessionID, req)
	if err != nil {
		rt.metrics.RecordAnalysis(serviceName, string(req.Type), "failed")
		writeError(w, err)
		return
	}
	rt.metrics.RecordAnalysis(serviceName, string(req.Type), "completed")
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": errorMessage(err)})
}
