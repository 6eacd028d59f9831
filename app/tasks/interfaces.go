package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to manage background pipeline processing.
// Example usage:
//
//	scheduler := NewScheduler(runner, store)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewRunPipelineTask(runner, pipeline.RunOptions{}))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
