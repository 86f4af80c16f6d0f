package serializer

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"planner/internal/planner/geometry"
	"planner/internal/planner/models"
)

var (
	ErrInvalidDocument    = errors.New("invalid drawing document")
	ErrUnsupportedVersion = errors.New("unsupported drawing document version")
)

// ============================================================
// Serialize
// ============================================================

// State is the store-side view of a document. Optional parts left nil are
// filled with defaults by Serialize.
type State struct {
	Units               models.Units
	CameraPosition      *geometry.Vec3
	CameraTarget        *geometry.Vec3
	CameraMode          models.CameraMode
	Walls               []models.Wall
	Openings            []models.Opening
	Objects             []models.PlacedObject
	Dimensions          []models.Dimension
	RoomLabels          []models.RoomLabel
	TextAnnotations     []models.TextAnnotation
	MaterialAssignments []models.MaterialAssignment
	Layers              []models.Layer
}

// Serialize builds a complete, schema-shaped document from s. Collections are
// copied so later changes to s do not leak into the result.
func Serialize(s State) *models.DrawingData {
	camera := models.DefaultCamera()
	if s.CameraPosition != nil {
		camera.Position = *s.CameraPosition
	}
	if s.CameraTarget != nil {
		camera.Target = *s.CameraTarget
	}
	if s.CameraMode != "" {
		camera.Mode = s.CameraMode
	}

	units := s.Units
	if units == "" {
		units = models.UnitsMetric
	}

	return &models.DrawingData{
		Version:             models.CurrentVersion,
		Units:               units,
		Camera:              camera,
		Walls:               cloneOrEmpty(s.Walls),
		Openings:            cloneOrEmpty(s.Openings),
		Objects:             cloneOrEmpty(s.Objects),
		Dimensions:          cloneOrEmpty(s.Dimensions),
		RoomLabels:          cloneOrEmpty(s.RoomLabels),
		TextAnnotations:     cloneOrEmpty(s.TextAnnotations),
		MaterialAssignments: cloneOrEmpty(s.MaterialAssignments),
		Layers:              cloneOrEmpty(s.Layers),
	}
}

// Marshal encodes a document as persisted JSON.
func Marshal(d *models.DrawingData) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	return json.Marshal(d)
}

// ============================================================
// Deserialize
// ============================================================

type decodeFunc func(data []byte) (*models.DrawingData, error)

// decoders maps a schema version to its loader.
var decoders = map[int]decodeFunc{
	1: decodeV1,
}

// Deserialize validates data against the schema for its declared version and
// returns the document. Any failure returns a nil document.
func Deserialize(data []byte) (*models.DrawingData, error) {
	var header struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if header.Version == nil {
		return nil, fmt.Errorf("%w: version is missing", ErrInvalidDocument)
	}

	decode, ok := decoders[*header.Version]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, *header.Version)
	}
	return decode(data)
}

// Validate checks an in-memory document with the same rules used on load.
func Validate(d *models.DrawingData) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	_, err = Deserialize(data)
	return err
}

func decodeV1(data []byte) (*models.DrawingData, error) {
	var doc documentV1
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return doc.toModel(), nil
}

// ============================================================
// Validator
// ============================================================

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(wallHasLength, wallV1{})
	return v
}

func cloneOrEmpty[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
