package api

import (
	"github.com/geopulse/geopulse/app/artifacts"
	"github.com/geopulse/geopulse/app/database"
	"github.com/geopulse/geopulse/app/pipeline"
	"github.com/geopulse/geopulse/app/tasks"
)

type Handler struct {
	store     *artifacts.Store
	postRepo  database.PostRepository
	runRepo   database.RunRepository
	runner    *pipeline.Runner
	scheduler tasks.TaskSchedulerInterface
}
