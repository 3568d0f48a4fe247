// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics evaluates screening decisions against ground-truth labels.
package metrics

import (
	"github.com/pdiddy/sysrev-engine/pkg/types"
)

// NoOverlapNote is the report note set when no screened record ID appears in
// the label set.
const NoOverlapNote = "no overlapping record_ids between screened records and labels"

// Evaluate inner-joins screened records with labels on record ID and returns
// confusion-matrix statistics. Screened records without a label, and labels
// without a screened record, are ignored. An empty join returns a report
// carrying only the note.
func Evaluate(screened []types.ScreenedRecord, labels types.LabelSet) types.Report {
	var tp, fp, fn, tn int
	evaluated := 0
	for _, s := range screened {
		label, ok := labels[s.RecordID]
		if !ok {
			continue
		}
		evaluated++
		switch {
		case s.Relevant && label == 1:
			tp++
		case s.Relevant && label != 1:
			fp++
		case !s.Relevant && label == 1:
			fn++
		default:
			tn++
		}
	}

	if evaluated == 0 {
		return types.Report{Note: NoOverlapNote}
	}

	precision := safeDiv(float64(tp), float64(tp+fp))
	recall := safeDiv(float64(tp), float64(tp+fn))
	f1 := safeDiv(2*precision*recall, precision+recall)

	nnr := 0.0
	if precision > 0 {
		nnr = 1 / precision
	}

	return types.Report{
		Evaluated: evaluated,
		TP:        tp,
		FP:        fp,
		FN:        fn,
		TN:        tn,
		Precision: precision,
		Recall:    recall,
		F1:        f1,
		NNR:       nnr,
	}
}

// safeDiv returns num/den, or 0 when the denominator is 0. Metrics stay
// finite so the report always serializes cleanly.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
