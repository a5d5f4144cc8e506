package media

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

// SizeSpec is one resize target: output width plus the size label used as
// the variant bucket key and the file name suffix.
type SizeSpec struct {
	Width  int    `yaml:"width" json:"width"`
	Suffix string `yaml:"suffix" json:"suffix"`
}

// DefaultSizes are the resize targets used when none are configured.
var DefaultSizes = []SizeSpec{
	{Width: 320, Suffix: SizeSmall},
	{Width: 640, Suffix: SizeMedium},
	{Width: 1024, Suffix: SizeLarge},
}

// DefaultFormats is the encode format preference used when none is
// configured. Order matters: the first format of a bucket is the one the
// resolver picks.
var DefaultFormats = []string{"jpeg"}

// ProgressFunc reports sequential pipeline progress. current is 1-based.
type ProgressFunc func(current, total int, file string)

// PipelineOptions configures one optimization run.
type PipelineOptions struct {
	// OutputDir is where variants and copied-through originals are written.
	OutputDir string
	// PathPrefix is prepended to every emitted public path.
	PathPrefix string
	// Domain, when set, is additionally prepended to produce absolute URLs.
	Domain string
	Sizes  []SizeSpec
	// Formats are the encode targets, in preference order (jpeg, png, gif).
	Formats []string
	// OptimizeImages disables resizing/re-encoding when false; every file is
	// copied through with an original-only catalog entry.
	OptimizeImages bool
	// SkipExisting leaves already-present output bytes untouched. The
	// catalog entry is produced either way.
	SkipExisting bool
	// ForceReprocess rewrites outputs even when SkipExisting is set.
	ForceReprocess bool
	Logger         *slog.Logger
	Progress       ProgressFunc
}

// decodableExts are the extensions the image decoders can handle.
var decodableExts = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {}, ".bmp": {},
}

// Optimize walks the vault media, produces variants, and returns the catalog
// plus the path map. Files are processed strictly sequentially so progress
// reporting stays deterministic. Per-file failures degrade that file's entry
// to an original-only bucket and never abort the run.
func Optimize(store storage.Provider, opts PipelineOptions) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if len(opts.Sizes) == 0 {
		opts.Sizes = DefaultSizes
	}
	if len(opts.Formats) == 0 {
		opts.Formats = DefaultFormats
	}

	files, err := store.ListMedia()
	if err != nil {
		return nil, fmt.Errorf("media: list vault media: %w", err)
	}

	result := &Result{
		MediaData: make([]CatalogEntry, 0, len(files)),
		PathMap:   make(map[string]string, len(files)),
	}

	for i, f := range files {
		if opts.Progress != nil {
			opts.Progress(i+1, len(files), f.Path)
		}
		entry := processFile(store, opts, f)
		result.MediaData = append(result.MediaData, entry)
		if v, ok := bestVariant(&entry, ""); ok {
			result.PathMap[f.Path] = v.PublicPath
		}
	}

	return result, nil
}

// processFile produces the catalog entry for one source file. It always
// returns a usable entry; encode failures fall back to the copy-through
// original bucket.
func processFile(store storage.Provider, opts PipelineOptions, meta models.FileMetadata) CatalogEntry {
	rel := meta.Path
	ext := strings.ToLower(path.Ext(rel))
	entry := CatalogEntry{
		OriginalRelativePath: rel,
		FileName:             path.Base(rel),
		FileExtension:        strings.TrimPrefix(ext, "."),
		MimeType:             mimeType(ext),
		SizeVariants:         map[string][]FormatVariant{},
		SourceMetadata:       SourceMetadata{ByteSize: meta.ByteSize},
	}

	data, err := store.Read(rel)
	if err != nil {
		opts.Logger.Warn("media: read failed, emitting original-only entry",
			slog.String("path", rel), slog.String("error", err.Error()))
		entry.SizeVariants[SizeOriginal] = []FormatVariant{originalVariant(opts, rel, 0, 0, meta.ByteSize)}
		return entry
	}

	var src image.Image
	if _, decodable := decodableExts[ext]; decodable {
		img, _, decErr := image.Decode(bytes.NewReader(data))
		if decErr != nil {
			opts.Logger.Warn("media: decode failed, copying through",
				slog.String("path", rel), slog.String("error", decErr.Error()))
		} else {
			src = img
			b := img.Bounds()
			entry.SourceMetadata.Width = b.Dx()
			entry.SourceMetadata.Height = b.Dy()
		}
	}

	// Copy-through original bucket, always present.
	origOut := filepath.Join(opts.OutputDir, filepath.FromSlash(rel))
	if shouldWrite(opts, origOut) {
		if werr := storage.WriteFileAtomic(origOut, data, 0o644); werr != nil {
			opts.Logger.Warn("media: copy original failed",
				slog.String("path", rel), slog.String("error", werr.Error()))
		}
	}
	entry.SizeVariants[SizeOriginal] = []FormatVariant{originalVariant(
		opts, rel, entry.SourceMetadata.Width, entry.SourceMetadata.Height, int64(len(data)))}

	if src == nil || !opts.OptimizeImages {
		return entry
	}

	srcW := entry.SourceMetadata.Width
	srcH := entry.SourceMetadata.Height
	for _, size := range opts.Sizes {
		if size.Width <= 0 || size.Width >= srcW {
			// Never upscale.
			continue
		}
		dstW := size.Width
		dstH := (srcH*dstW + srcW/2) / srcW
		scaled := resize(src, dstW, dstH)

		variants := make([]FormatVariant, 0, len(opts.Formats))
		for _, format := range opts.Formats {
			v, encErr := writeVariant(opts, rel, size.Suffix, format, scaled, dstW, dstH)
			if encErr != nil {
				opts.Logger.Warn("media: encode failed",
					slog.String("path", rel),
					slog.String("format", format),
					slog.String("error", encErr.Error()))
				continue
			}
			variants = append(variants, v)
		}
		if len(variants) > 0 {
			entry.SizeVariants[size.Suffix] = variants
		}
	}

	return entry
}

func originalVariant(opts PipelineOptions, rel string, w, h int, byteSize int64) FormatVariant {
	pub := publicPath(opts.PathPrefix, rel)
	return FormatVariant{
		Width:              w,
		Height:             h,
		Format:             strings.TrimPrefix(path.Ext(rel), "."),
		PublicPath:         pub,
		AbsolutePublicPath: absolutePath(opts.Domain, pub),
		ByteSize:           byteSize,
	}
}

// writeVariant encodes one scaled rendition and returns its variant record.
// When skip-existing applies and the output file is already present, the
// existing bytes are kept and only stat'd for size.
func writeVariant(opts PipelineOptions, rel, suffix, format string, img image.Image, w, h int) (FormatVariant, error) {
	dir := path.Dir(rel)
	stem := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	name := stem + "-" + suffix + "." + formatExt(format)
	outRel := path.Join(dir, name)
	outPath := filepath.Join(opts.OutputDir, filepath.FromSlash(outRel))
	pub := publicPath(opts.PathPrefix, outRel)

	variant := FormatVariant{
		Width:              w,
		Height:             h,
		Format:             format,
		PublicPath:         pub,
		AbsolutePublicPath: absolutePath(opts.Domain, pub),
	}

	if !shouldWrite(opts, outPath) {
		if info, err := os.Stat(outPath); err == nil {
			variant.ByteSize = info.Size()
		}
		return variant, nil
	}

	encoded, err := encode(img, format)
	if err != nil {
		return FormatVariant{}, err
	}
	if err := storage.WriteFileAtomic(outPath, encoded, 0o644); err != nil {
		return FormatVariant{}, err
	}
	variant.ByteSize = int64(len(encoded))
	return variant, nil
}

// shouldWrite implements the skip/force contract: skip flags only gate byte
// rewriting, never catalog production.
func shouldWrite(opts PipelineOptions, outPath string) bool {
	if opts.ForceReprocess {
		return true
	}
	if !opts.SkipExisting {
		return true
	}
	_, err := os.Stat(outPath)
	return err != nil
}

func resize(src image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

func encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "jpeg", "jpg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			return nil, err
		}
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("media: unsupported encode format %q", format)
	}
	return buf.Bytes(), nil
}

func formatExt(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}

func publicPath(prefix, rel string) string {
	p := path.Join("/", prefix, rel)
	return p
}

func absolutePath(domain, pub string) string {
	if domain == "" {
		return ""
	}
	return strings.TrimSuffix(domain, "/") + pub
}

func mimeType(ext string) string {
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
