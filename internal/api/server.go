// Package api exposes schematic decoding over HTTP.
package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/schemview/schemview/internal/logger"
	"github.com/schemview/schemview/internal/nbt"
	"github.com/schemview/schemview/internal/schematic"
)

// Request bodies past this size are rejected outright; the decoder's own
// oversized-input caution covers everything below it.
const maxBodyBytes = 256 << 20

// Server decodes uploaded schematics and returns their summaries. Each
// request gets a fresh decode context, so concurrent requests never share
// parse state.
type Server struct {
	maxDepth  int
	extractor *schematic.Extractor
	log       logger.Logger
}

type Config struct {
	MaxDepth int
	Mods     schematic.ModResolver
	Versions schematic.VersionResolver
	Logger   logger.Logger
}

func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	return &Server{
		maxDepth:  cfg.MaxDepth,
		extractor: schematic.NewExtractor(cfg.Mods, cfg.Versions, cfg.Logger),
		log:       cfg.Logger,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.POST("/v1/schematics", s.handleInspect)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleInspect accepts a raw (optionally gzipped) NBT document as the
// request body and responds with its summary.
func (s *Server) handleInspect(c *echo.Context) error {
	requestID := uuid.NewString()
	log := s.log.With("request_id", requestID)

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes+1))
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid_request_error", "failed to read request body")
	}
	if len(body) > maxBodyBytes {
		return writeError(c, http.StatusRequestEntityTooLarge, "invalid_request_error", "schematic exceeds the upload size limit")
	}

	dec := nbt.NewDecoder(nbt.Options{MaxDepth: s.maxDepth, Logger: log})
	root, err := dec.Decode(body)
	if err != nil {
		log.Warn("decode failed", "error", err)
		return writeDecodeError(c, err)
	}

	compound, ok := root.Tag.(*nbt.Compound)
	if !ok {
		return writeError(c, http.StatusUnprocessableEntity, "decode_error", "document root is not a compound")
	}
	summary, err := s.extractor.Extract(compound)
	if err != nil {
		log.Warn("extract failed", "error", err)
		return writeDecodeError(c, err)
	}

	log.Info("schematic decoded", "blocks", summary.TotalBlocks, "mods", len(summary.Mods))
	return c.JSON(http.StatusOK, summaryResponse(requestID, summary))
}

// writeDecodeError maps the decode error taxonomy to HTTP statuses. Empty
// input is the caller's mistake; everything else in the taxonomy means the
// document itself cannot be processed.
func writeDecodeError(c *echo.Context, err error) error {
	switch {
	case errors.Is(err, nbt.ErrEmptyInput):
		return writeError(c, http.StatusBadRequest, "invalid_request_error", "empty schematic body")
	case errors.Is(err, nbt.ErrCorrupt),
		errors.Is(err, nbt.ErrUnexpectedEOF),
		errors.Is(err, nbt.ErrMaxDepthExceeded),
		errors.Is(err, nbt.ErrInvalidLength),
		errors.Is(err, nbt.ErrUnknownTagType),
		errors.Is(err, nbt.ErrInvalidStructure):
		return writeError(c, http.StatusUnprocessableEntity, "decode_error", err.Error())
	default:
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
}
