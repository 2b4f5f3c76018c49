package renderer

import (
	"context"
	"runtime"
	"sync"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile *Tile
	Sink PixelSink
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TileID   int
	WorkerID int
	Stats    RenderStats
	Error    error
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual tile rendering tasks
type Worker struct {
	ID          int
	renderer    *TileRenderer
	taskQueue   chan TileTask
	resultQueue chan TileResult
}

// NewWorkerPool creates a worker pool sized for numTiles tasks.
// A non-positive numWorkers uses one worker per CPU.
func NewWorkerPool(tileRenderer *TileRenderer, numTiles, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, numTiles),
		resultQueue: make(chan TileResult, numTiles),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			renderer:    tileRenderer,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start(ctx context.Context) {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, &wp.wg)
	}
}

// Stop closes the task queue and waits for the workers to drain it
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		stats, err := w.renderer.RenderTile(ctx, task.Tile, task.Sink)
		w.resultQueue <- TileResult{
			TileID:   task.Tile.ID,
			WorkerID: w.ID,
			Stats:    stats,
			Error:    err,
		}
	}
}
