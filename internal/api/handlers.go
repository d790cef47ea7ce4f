package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const msgEmptyMessage = "Message cannot be empty"

var (
	errInvalidBody = errors.New("invalid request body")
	errMissingText = errors.New("text is required")
)

func (s *Server) handleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, errInvalidBody)
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgEmptyMessage})
		return
	}

	answer := s.chat.Answer(c.Request.Context(), message)
	s.metrics.recordChat(string(answer.Route))
	logrus.WithFields(logrus.Fields{
		"session": sessionID,
		"route":   answer.Route,
		"intent":  answer.Intent,
	}).Info("chat answered")

	c.JSON(http.StatusOK, ChatResponse{
		Reply:     answer.Reply,
		SessionID: sessionID,
	})
}

func (s *Server) handlePredict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, errInvalidBody)
		return
	}
	if req.Text == nil {
		s.renderError(c, http.StatusBadRequest, errMissingText)
		return
	}

	result, err := s.ipc.Predict(c.Request.Context(), *req.Text)
	if err != nil {
		logrus.WithError(err).Error("ipc prediction failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Prediction temporarily unavailable"})
		return
	}
	s.metrics.recordPrediction(string(result.Outcome))
	c.JSON(http.StatusOK, PredictFromResult(result))
}
