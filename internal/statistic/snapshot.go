package statistic

import (
	"context"
	"os"

	"github.com/Andii-12/Deltasoft-backend/internal/providers"
	"github.com/Andii-12/Deltasoft-backend/internal/services"
	"github.com/Andii-12/Deltasoft-backend/internal/statistic/interfaces"
	json "github.com/goccy/go-json"
)

// SnapshotWriter exports the overview statistics as a zstd-compressed
// JSON file, for offline inspection and cheap backups. The visit store
// itself remains the system of record.
type SnapshotWriter struct {
	service    services.AnalyticsServiceInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewSnapshotWriter(compressor interfaces.CompressorInterface, service services.AnalyticsServiceInterface, logger providers.Logger) *SnapshotWriter {
	return &SnapshotWriter{
		service:    service,
		compressor: compressor,
		logger:     logger,
	}
}

func (sw *SnapshotWriter) Write(ctx context.Context, fileName string) error {
	stats, err := sw.service.Overview(ctx)
	if err != nil {
		return err
	}

	jsonData, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	data, err := sw.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

// Read loads a previously written snapshot. Used by tooling and tests.
func (sw *SnapshotWriter) Read(fileName string) ([]byte, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	return sw.compressor.Decompress(data)
}

func (sw *SnapshotWriter) Close() {
	sw.compressor.Close()
}
