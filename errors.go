package cinema

import "errors"

var (
	// ErrInvalidControlPoints is returned by BuildLUT when fewer than two
	// control points are given or their x values are not strictly increasing.
	ErrInvalidControlPoints = errors.New("cinema: invalid control points")

	// ErrMalformedLayerSpec is returned for a layer spec of odd length.
	ErrMalformedLayerSpec = errors.New("cinema: malformed layer spec")

	// ErrUnknownLayerField is returned when a (layer, field) pair has no
	// entry in the dataset's offset table.
	ErrUnknownLayerField = errors.New("cinema: unknown layer field")

	// ErrNotReady is returned by Composite while rendering metadata (lookup
	// tables) has not been loaded, or when there is no sprite sheet.
	ErrNotReady = errors.New("cinema: rendering not ready")

	// ErrSlotOutOfRange is returned when a resolved slot lies outside the
	// sprite sheet.
	ErrSlotOutOfRange = errors.New("cinema: slot out of range")

	// ErrInvalidDataset is returned when info.json metadata is malformed.
	ErrInvalidDataset = errors.New("cinema: invalid dataset")

	// ErrInvalidControl is returned when a numeric control such as phi or
	// theta cannot be parsed.
	ErrInvalidControl = errors.New("cinema: invalid control value")
)
