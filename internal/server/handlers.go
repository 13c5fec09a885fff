package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"chatdoc/internal/app"
	"chatdoc/internal/quiz"
	"chatdoc/internal/session"
)

// Handler serves the session, document, question and quiz routes.
type Handler struct {
	App            *app.App
	Store          session.Store
	MaxUploadBytes int64
}

func (h *Handler) Register(g *echo.Group) {
	g.POST("/sessions", h.createSession)
	g.DELETE("/sessions/:id", h.deleteSession)
	g.POST("/sessions/:id/documents", h.upload)
	g.POST("/sessions/:id/questions", h.ask)
	g.POST("/quiz", h.quiz)
}

type sessionResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type documentResponse struct {
	Name       string    `json:"name"`
	Chunks     int       `json:"chunks"`
	IngestedAt time.Time `json:"ingested_at"`
}

type source struct {
	Index    int     `json:"index"`
	Section  string  `json:"section,omitempty"`
	Text     string  `json:"text"`
	Distance float32 `json:"distance"`
}

type answerResponse struct {
	Answer  string   `json:"answer"`
	Sources []source `json:"sources"`
}

func (h *Handler) createSession(c echo.Context) error {
	s, err := h.Store.Create(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sessionResponse{ID: s.ID, CreatedAt: s.CreatedAt})
}

func (h *Handler) deleteSession(c echo.Context) error {
	if err := h.Store.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// upload ingests the multipart field "file" into the session.
func (h *Handler) upload(c echo.Context) error {
	ctx := c.Request().Context()
	sess, err := h.Store.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	if h.MaxUploadBytes > 0 {
		c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, h.MaxUploadBytes)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", h.MaxUploadBytes))
		}
		return echo.NewHTTPError(http.StatusBadRequest, "multipart field \"file\" required")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	doc, err := h.App.Ingest(ctx, sess, fh.Filename, data)
	if err != nil {
		return err
	}
	if err := h.Store.Save(ctx, sess); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, documentResponse{Name: doc.Name, Chunks: len(doc.Chunks), IngestedAt: doc.IngestedAt})
}

func (h *Handler) ask(c echo.Context) error {
	ctx := c.Request().Context()
	sess, err := h.Store.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	var req struct {
		Question string `json:"question"`
		TopK     int    `json:"top_k"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ans, err := h.App.AnswerTopK(ctx, sess, req.Question, req.TopK)
	if err != nil {
		return err
	}

	resp := answerResponse{Answer: ans.Text, Sources: make([]source, 0, len(ans.Sources))}
	for _, r := range ans.Sources {
		resp.Sources = append(resp.Sources, source{
			Index:    r.Chunk.Index,
			Section:  r.Chunk.Section,
			Text:     r.Chunk.Text,
			Distance: r.Distance,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) quiz(c echo.Context) error {
	var req quiz.Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	questions, err := h.App.Quiz(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"questions": questions})
}
