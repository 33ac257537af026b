package calendar

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// FileSource reads the holiday dataset from a local JSON file
type FileSource struct {
	filePath string
	logger   *zap.Logger
}

// NewFileSource creates a new FileSource instance
func NewFileSource(filePath string, logger *zap.Logger) *FileSource {
	return &FileSource{
		filePath: filePath,
		logger:   logger,
	}
}

// Path returns the file the source reads
func (fs *FileSource) Path() string {
	return fs.filePath
}

// Fetch loads the dataset from file
func (fs *FileSource) Fetch(ctx context.Context) (*Dataset, error) {
	file, err := os.Open(fs.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer file.Close()

	ds, err := DecodeDataset(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fs.filePath, err)
	}

	fs.logger.Debug("Holiday file loaded",
		zap.String("file", fs.filePath),
		zap.Int("years", len(ds.Years)))

	return ds, nil
}
