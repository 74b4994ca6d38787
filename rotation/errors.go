package rotation

import "errors"

var (
	// ErrScanFailure is returned when the wallpaper folder is missing or
	// cannot be traversed.
	ErrScanFailure = errors.New("Unable to scan wallpaper folder")
	// ErrEmptyCatalog is returned when the folder contains no usable images.
	ErrEmptyCatalog = errors.New("No wallpapers found in folder")
	// ErrInsufficientPool is returned when there are more displays than
	// wallpapers.
	ErrInsufficientPool = errors.New("Not enough wallpapers for every display")

	// Neither of these is fatal to a run.
	ErrLogRead  = errors.New("Unable to read history")
	ErrLogWrite = errors.New("Unable to write history")
)
