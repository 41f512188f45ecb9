package stegcrypt

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// ParallelConfig controls parallel bit extraction
type ParallelConfig struct {
	// Enabled enables parallel row scanning
	Enabled bool

	// MaxWorkers is the maximum number of worker goroutines
	// If 0, defaults to runtime.NumCPU()
	MaxWorkers int

	// MinRowsForParallel is the minimum image height to scan in parallel
	// Below this threshold, sequential processing is used
	MinRowsForParallel int
}

// Validate checks if the parallel configuration is valid
func (p *ParallelConfig) Validate() error {
	if !p.Enabled {
		return nil // Nothing to validate if disabled
	}

	if p.MaxWorkers < 0 {
		return errors.New("parallel max workers cannot be negative")
	}
	if p.MaxWorkers > 1024 {
		return errors.New("parallel max workers must not exceed 1024")
	}
	if p.MinRowsForParallel < 1 {
		return errors.New("parallel min rows threshold must be at least 1")
	}

	return nil
}

// DefaultParallelConfig returns the default parallel processing configuration
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		Enabled:            true,
		MaxWorkers:         runtime.NumCPU(),
		MinRowsForParallel: 256,
	}
}

// extractBits reads one blue LSB per pixel. Workers own whole rows and write
// into fixed offsets, so the result is in raster order however rows are scheduled.
func extractBits(img Image, cfg ParallelConfig) ([]byte, error) {
	width, height := img.Width(), img.Height()
	if width <= 0 || height <= 0 {
		return nil, nil
	}
	bits := make([]byte, width*height)

	scanRow := func(y int) {
		row := bits[y*width : (y+1)*width]
		for x := range row {
			row[x] = img.GetPixel(x, y).B & 1
		}
	}

	if !cfg.Enabled || height < cfg.MinRowsForParallel {
		for y := 0; y < height; y++ {
			scanRow(y)
		}
		return bits, nil
	}

	// Determine number of workers
	numWorkers := cfg.MaxWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > height {
		numWorkers = height
	}

	var wg sync.WaitGroup
	jobChan := make(chan int, height)
	errChan := make(chan error, numWorkers)

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					// Convert panic to error
					err := fmt.Errorf("panic in extraction worker: %v", r)
					select {
					case errChan <- err:
					default:
					}
				}
			}()
			for y := range jobChan {
				scanRow(y)
			}
		}()
	}

	for y := 0; y < height; y++ {
		jobChan <- y
	}
	close(jobChan)

	wg.Wait()
	close(errChan)

	// errChan is closed, so a receive only reports ok when a worker failed
	if err, ok := <-errChan; ok && err != nil {
		return nil, err
	}
	return bits, nil
}
