// Package instanceio handles JSON (de)serialization of circlepack instances
// and results, mirroring the teacher's SpriteInfo/MultiAtlasData JSON
// plumbing: plain exported structs with json tags, no custom marshalers.
package instanceio

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/maruel/natural"

	"circlepack/circlepack"
	"circlepack/depack"
	"circlepack/geom"
)

// RectSpec is one labeled rectangle as read from or written to an instance
// file.
type RectSpec struct {
	Label string  `json:"label"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
}

// PaddingSpec mirrors depack.Padding with JSON field names.
type PaddingSpec struct {
	Outer float64 `json:"outer"`
	Inner float64 `json:"inner"`
}

// InstanceFile is the on-disk shape of a circlepack instance.
type InstanceFile struct {
	Rects   []RectSpec  `json:"rects"`
	Padding PaddingSpec `json:"padding"`
}

// PoseResult is one rectangle's resolved placement, carrying its original
// label back through for presentation.
type PoseResult struct {
	Label string  `json:"label"`
	CX    float64 `json:"cx"`
	CY    float64 `json:"cy"`
	Theta float64 `json:"theta"`
}

// ResultFile is the on-disk shape of a circlepack result.
type ResultFile struct {
	RunID                 string       `json:"runId"`
	Radius                float64      `json:"radius"`
	Valid                 bool         `json:"valid"`
	Poses                 []PoseResult `json:"poses"`
	Stage                 string       `json:"stage"`
	Generations           int          `json:"generations"`
	PermutationsAttempted int          `json:"permutationsAttempted"`
}

// DecodeInstance reads and validates an instance file, returning
// circlepack.ErrInvalidInstance (wrapped) when validation fails (no
// rectangles, non-positive dimensions or negative padding); malformed JSON
// is returned as a wrapped decode error instead. Labels
// are sorted into natural order before the rectangle slice is built, so the
// rectangle order a solve sees does not depend on the order they appeared in
// the file.
func DecodeInstance(r io.Reader) (circlepack.Instance, []string, error) {
	var file InstanceFile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&file); err != nil {
		return circlepack.Instance{}, nil, fmt.Errorf("instanceio: decode instance: %w", err)
	}

	if len(file.Rects) < 1 {
		return circlepack.Instance{}, nil, fmt.Errorf("%w: instance has no rectangles", circlepack.ErrInvalidInstance)
	}

	labelOrder := make([]string, len(file.Rects))
	for i, rs := range file.Rects {
		labelOrder[i] = rs.Label
	}
	sort.Sort(natural.StringSlice(labelOrder))
	rank := make(map[string]int, len(labelOrder))
	for i, label := range labelOrder {
		rank[label] = i
	}
	sort.SliceStable(file.Rects, func(i, j int) bool {
		return rank[file.Rects[i].Label] < rank[file.Rects[j].Label]
	})

	rects := make([]geom.Rect, len(file.Rects))
	labels := make([]string, len(file.Rects))
	for i, rs := range file.Rects {
		if rs.W <= 0 || rs.H <= 0 {
			return circlepack.Instance{}, nil, fmt.Errorf("%w: rectangle %q has non-positive dimensions", circlepack.ErrInvalidInstance, rs.Label)
		}
		rects[i] = geom.Rect{W: rs.W, H: rs.H}
		labels[i] = rs.Label
	}

	if file.Padding.Outer < 0 || file.Padding.Inner < 0 {
		return circlepack.Instance{}, nil, fmt.Errorf("%w: padding must be non-negative", circlepack.ErrInvalidInstance)
	}

	instance := circlepack.Instance{
		Rects:   rects,
		Padding: depack.Padding{Outer: file.Padding.Outer, Inner: file.Padding.Inner},
	}
	return instance, labels, nil
}

// EncodeInstance writes instance back out in the InstanceFile shape, using
// labels (same length and order as instance.Rects) for each rectangle's
// label field.
func EncodeInstance(w io.Writer, instance circlepack.Instance, labels []string) error {
	file := InstanceFile{
		Rects: make([]RectSpec, len(instance.Rects)),
		Padding: PaddingSpec{
			Outer: instance.Padding.Outer,
			Inner: instance.Padding.Inner,
		},
	}
	for i, r := range instance.Rects {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		file.Rects[i] = RectSpec{Label: label, W: r.W, H: r.H}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("instanceio: encode instance: %w", err)
	}
	return nil
}

// EncodeResult writes result out in the ResultFile shape, pairing each pose
// with its original label (same length and order as result.Poses).
func EncodeResult(w io.Writer, result circlepack.Result, labels []string) error {
	file := ResultFile{
		RunID:                 result.RunID.String(),
		Radius:                result.Radius,
		Valid:                 result.Valid,
		Stage:                 result.Stage.String(),
		Generations:           result.Generations,
		PermutationsAttempted: result.PermutationsAttempted,
		Poses:                 make([]PoseResult, len(result.Poses)),
	}
	for i, p := range result.Poses {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		file.Poses[i] = PoseResult{Label: label, CX: p.CX, CY: p.CY, Theta: p.Theta}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("instanceio: encode result: %w", err)
	}
	return nil
}
