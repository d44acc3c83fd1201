package handler

import (
	"net/http"
	"sort"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/agency-metrics-api/pkg/apiErrors"
	"github.com/vfg2006/agency-metrics-api/pkg/log"
)

// Nomes das jobs agendadas que podem ser disparadas manualmente
const (
	JobCacheWarmup  = "cache-warmup"
	JobCacheJanitor = "cache-janitor"
)

// ScheduledJob é implementada pelos serviços de internal/scheduler
type ScheduledJob interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

// RunJob dispara manualmente uma job agendada
func RunJob(jobs map[string]ScheduledJob) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		name := httprouter.ParamsFromContext(r.Context()).ByName("job")

		job, ok := jobs[name]
		if !ok || job == nil {
			logger.WithField("job", name).Warn("Job desconhecida")
			apiErrors.WriteError(w, apiErrors.ErrNotFound, "Job não encontrada", map[string]any{"available": jobNames(jobs)})
			return
		}

		if !job.TriggerManualSync() {
			writeJSON(w, r, http.StatusConflict, map[string]any{
				"message": "Job já em andamento",
				"job":     name,
			})
			return
		}

		logger.WithField("job", name).Info("Job disparada manualmente")
		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "Job iniciada com sucesso",
			"job":     name,
		})
	})
}

func GetJobsStatus(jobs map[string]ScheduledJob) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := make(map[string]any, len(jobs))
		for name, job := range jobs {
			if job != nil {
				status[name] = job.GetStatus()
			}
		}
		writeJSON(w, r, http.StatusOK, status)
	})
}

func jobNames(jobs map[string]ScheduledJob) []string {
	names := make([]string, 0, len(jobs))
	for name := range jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
