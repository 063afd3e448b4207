package view

// batchIndex holds the two maps described in §4.1: per-LlmResponseId
// positions of its ActionEvents, and whether that batch's first action
// carries thinking blocks.
type batchIndex struct {
	batches          map[LlmResponseId][]int
	batchOrder       []LlmResponseId
	batchHasThinking map[LlmResponseId]bool
}

// buildBatchIndex makes a single left-to-right pass over events, grouping
// ActionEvent positions by LlmResponseId.
func buildBatchIndex(events []Event) *batchIndex {
	idx := &batchIndex{
		batches:          make(map[LlmResponseId][]int),
		batchHasThinking: make(map[LlmResponseId]bool),
	}

	for pos, e := range events {
		a, ok := asAction(e)
		if !ok {
			continue
		}
		if _, seen := idx.batches[a.LlmResponseID]; !seen {
			idx.batchOrder = append(idx.batchOrder, a.LlmResponseID)
			idx.batchHasThinking[a.LlmResponseID] = a.HasThinking()
		}
		idx.batches[a.LlmResponseID] = append(idx.batches[a.LlmResponseID], pos)
	}

	return idx
}

// span returns the [min, max] position range for a batch. ok is false if
// the batch id is unknown.
func (idx *batchIndex) span(id LlmResponseId) (min, max int, ok bool) {
	positions, exists := idx.batches[id]
	if !exists || len(positions) == 0 {
		return 0, 0, false
	}
	min, max = positions[0], positions[0]
	for _, p := range positions[1:] {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return min, max, true
}
