package tasks

import (
	"context"
	"log/slog"

	"github.com/geopulse/geopulse/app/pipeline"
)

type RunPipelineTask struct {
	Task
	runner  *pipeline.Runner
	options pipeline.RunOptions
}

func NewRunPipelineTask(runner *pipeline.Runner, options pipeline.RunOptions) *RunPipelineTask {
	label := "full"
	if options.SinceDate != "" {
		label = "incremental"
	}

	return &RunPipelineTask{
		Task:    NewTask(TaskTypeRunPipeline, label),
		runner:  runner,
		options: options,
	}
}

func (t *RunPipelineTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result, err := t.runner.Run(ctx, t.options)
	if err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", "RunPipeline",
		"run_type", t.Label,
		"duration", t.GetDuration(),
		"new_posts", result.NewPosts,
		"admitted", result.Admitted,
		"enriched", result.Enriched,
		"skipped", result.Skipped,
		"signals", result.Deduped)

	return nil
}
