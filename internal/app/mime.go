package app

import (
	"log/slog"
	"mime"
)

// assetTypes are the embedded static extensions some hosts leave unmapped.
var assetTypes = map[string]string{
	".css": "text/css; charset=utf-8",
	".svg": "image/svg+xml",
}

func init() {
	registerAssetTypes(slog.Default())
}

func registerAssetTypes(logger *slog.Logger) {
	for ext, typ := range assetTypes {
		if mime.TypeByExtension(ext) != "" {
			continue
		}
		if err := mime.AddExtensionType(ext, typ); err != nil {
			logger.Warn("register mime type", slog.String("ext", ext), slog.Any("error", err))
		}
	}
}
