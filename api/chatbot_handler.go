package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio/chatbot"
	"github.com/rpupo63/portfolio/errs"
)

type chatbotHandler struct {
	responder Responder
	logger    zerolog.Logger
	bot       *chatbot.Bot
}

func newChatbotHandler(bot *chatbot.Bot) chatbotHandler {
	logger := log.With().Str("handlerName", "chatbotHandler").Logger()

	if bot == nil {
		bot = chatbot.NewBot(chatbot.DefaultContent(), chatbot.WithLogger(logger))
	}

	return chatbotHandler{
		responder: NewResponder(logger),
		logger:    logger,
		bot:       bot,
	}
}

// @Summary Chatbot greeting and categories
// @Tags Chatbot
// @Produce json
// @Success 200 {object} ChatbotOverview
// @Router /api/chatbot [get]
func (h chatbotHandler) getOverview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content := h.bot.Content()
		h.responder.WriteJSON(w, ChatbotOverview{
			Greeting:   content.Greeting,
			Categories: content.CategoryNames(),
		})
	}
}

// @Summary Questions of one chatbot category
// @Tags Chatbot
// @Produce json
// @Param category path string true "Category name"
// @Success 200 {object} chatbot.Category
// @Failure 404 {object} ErrorResponse "Not Found - Unknown category"
// @Router /api/chatbot/{category} [get]
func (h chatbotHandler) getCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "category")
		category, ok := h.bot.Content().Category(name)
		if !ok {
			h.responder.WriteError(w, errs.NewNotFoundError("chatbot category not found"))
			return
		}
		h.responder.WriteJSON(w, category)
	}
}

// @Summary Ask the chatbot a free-text question
// @Tags Chatbot
// @Accept json
// @Produce json
// @Param question body AskRequest true "Question"
// @Success 200 {object} AskResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Missing question"
// @Router /api/chatbot/ask [post]
func (h chatbotHandler) ask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AskRequest
		if err := h.responder.DecodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		question := strings.TrimSpace(req.Question)
		if question == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("question"))
			return
		}

		source := "model"
		if _, ok := h.bot.Content().Search(question); ok {
			source = "faq"
		}
		chatbotQuestionsTotal.WithLabelValues(source).Inc()

		h.responder.WriteJSON(w, AskResponse{Answer: h.bot.Reply(r.Context(), question)})
	}
}
