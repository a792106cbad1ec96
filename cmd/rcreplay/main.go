// Command rcreplay replays a YAML call-trace script against a software
// rendercore engine and writes the resulting frames as PNG files.
//
//	rcreplay -script scene.yaml -out shots -frame final.png
package main

import (
	"errors"
	"flag"
	"os"

	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/phanxgames/rendercore"
	"github.com/phanxgames/rendercore/backend/raster"
)

func _main() error {
	configPath := flag.String("config", "", "YAML config file")
	scriptPath := flag.String("script", "", "YAML call-trace script to replay")
	outDir := flag.String("out", ".", "directory for screenshot steps")
	final := flag.String("frame", "", "write the final frame to this file; the extension picks png, bmp, tiff or jpg")
	width := flag.Int("width", 0, "surface width (overrides config)")
	height := flag.Int("height", 0, "surface height (overrides config)")
	level := flag.String("log", "", "log level (overrides config)")
	flag.Parse()

	if *scriptPath == "" {
		flag.Usage()
		return errors.New("missing -script")
	}

	cfg := rendercore.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = rendercore.LoadConfig(*configPath); err != nil {
			return err
		}
	}
	if *width > 0 {
		cfg.Width = *width
	}
	if *height > 0 {
		cfg.Height = *height
	}
	if *level != "" {
		cfg.LogLevel = *level
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Backend != rendercore.BackendRaster {
		return errors.New("rcreplay renders with the raster backend only; use rcview for ebiten")
	}

	lvl, err := rendercore.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)

	script, err := rendercore.LoadScript(*scriptPath)
	if err != nil {
		return err
	}

	opts := append(cfg.Options(), rendercore.WithLogger(log.StandardLogger()))
	e, err := rendercore.New(raster.New(), cfg.Width, cfg.Height, opts...)
	if err != nil {
		return err
	}

	shots, err := script.Run(e, *outDir)
	for _, path := range shots {
		log.WithField("path", path).Info("screenshot")
	}
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"steps":  len(script.Steps),
		"shapes": e.Store().Len(),
	}).Info("replayed")

	if *final != "" {
		if err := e.WriteFrame(*final); err != nil {
			return err
		}
		log.WithField("path", *final).Info("wrote frame")
	}
	return nil
}

func main() {
	prefixed := &prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
		ForceColors:     true,
	}
	log.SetFormatter(prefixed)
	log.SetOutput(os.Stdout)
	err := _main()
	if err != nil {
		log.Fatal(err)
	}
}
