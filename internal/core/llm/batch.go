package llm

import (
	"encoding/json"

	"github.com/Airohh/Appli-Food-Course/internal/pkg/common"

	"go.uber.org/zap"
)

// ProcessInBatches splits a long list into chunks and runs the processor on
// each, so a single model call never carries the whole list. A failing
// chunk keeps its original items instead of aborting the run.
func ProcessInBatches[T any](items []T, maxBatchSize int, processor func([]T) ([]T, error)) []T {
	if len(items) == 0 {
		return nil
	}
	if maxBatchSize <= 0 {
		maxBatchSize = 50
	}
	if len(items) <= maxBatchSize {
		processed, err := processor(items)
		if err != nil {
			common.LogWarn("batch processing failed, keeping originals", zap.Error(err))
			return items
		}
		return processed
	}

	totalBatches := (len(items) + maxBatchSize - 1) / maxBatchSize
	results := make([]T, 0, len(items))
	for start := 0; start < len(items); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]
		batchNum := start/maxBatchSize + 1

		common.LogInfo("processing batch",
			zap.Int("batch", batchNum),
			zap.Int("total", totalBatches),
			zap.Int("items", len(batch)),
		)

		processed, err := processor(batch)
		if err != nil {
			common.LogError("batch failed, keeping originals",
				zap.Int("batch", batchNum),
				zap.Error(err),
			)
			results = append(results, batch...)
			continue
		}
		results = append(results, processed...)
	}
	return results
}

// EstimateTokens approximates the token count of a text (about four
// characters per token).
func EstimateTokens(text string) int {
	return len(text) / 4
}

// ShouldSplitBatch reports whether a list serializes beyond the token
// budget of a single call.
func ShouldSplitBatch(items interface{}, maxTokens int) bool {
	data, err := json.Marshal(items)
	if err != nil {
		return false
	}
	return EstimateTokens(string(data)) > maxTokens
}
