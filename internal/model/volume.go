package model

import "errors"

// ErrVolumeUnsupported is returned where volume statistics are unavailable
var ErrVolumeUnsupported = errors.New("volume statistics not supported on this platform")

// Volume describes the filesystem holding a scan root
type Volume struct {
	Path       string
	TotalBytes uint64
	FreeBytes  uint64
}

// UsedBytes returns bytes used on this volume
func (v Volume) UsedBytes() uint64 {
	if v.FreeBytes > v.TotalBytes {
		return 0
	}
	return v.TotalBytes - v.FreeBytes
}

// UsedPercent returns percentage of the volume used
func (v Volume) UsedPercent() float64 {
	if v.TotalBytes == 0 {
		return 0
	}
	return float64(v.UsedBytes()) / float64(v.TotalBytes) * 100
}

// VolumeFor returns space information for the filesystem containing path
func VolumeFor(path string) (Volume, error) {
	total, free, err := diskSpace(path)
	if err != nil {
		return Volume{Path: path}, err
	}
	return Volume{Path: path, TotalBytes: total, FreeBytes: free}, nil
}
