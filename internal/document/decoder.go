package document

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/einvoice-tools/extractor/constants"
	"github.com/einvoice-tools/extractor/internal/common"
)

// Decoder turns a source file into a Document.
type Decoder interface {
	Decode(ctx context.Context, path string) (*Document, error)
}

// FileDecoder picks a decoding strategy based on file extension.
type FileDecoder struct {
	logger *slog.Logger
}

func NewFileDecoder(logger *slog.Logger) *FileDecoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileDecoder{logger: logger}
}

func (d *FileDecoder) Decode(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ext := constants.NormalizeExt(filepath.Ext(path))
	d.logger.Debug("document.decode.start", "path", path, "ext", ext)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	switch constants.MapExtToFormat(ext) {
	case constants.FormatText:
		return DecodeText(raw), nil
	case constants.FormatLayout:
		doc, err := DecodeLayout(raw)
		if err != nil {
			d.logger.Error("document.decode.layout_failed", "path", path, "error", err)
			return nil, err
		}
		return doc, nil
	default:
		d.logger.Error("document.decode.unsupported", "path", path, "ext", ext)
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, ext)
	}
}
