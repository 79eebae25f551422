package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/studyplan/internal/alerts"
	"github.com/abhisek/studyplan/internal/schedule"
	"github.com/abhisek/studyplan/internal/store"
	"github.com/abhisek/studyplan/internal/syllabus"
)

type subjectRequest struct {
	Name   string               `json:"name"`
	Color  string               `json:"color"`
	Weight syllabus.WeightInput `json:"weight"`
}

type subjectPatchRequest struct {
	Name   *string               `json:"name"`
	Color  *string               `json:"color"`
	Weight *syllabus.WeightInput `json:"weight"`
}

func (r subjectPatchRequest) patch() store.SubjectPatch {
	p := store.SubjectPatch{Name: r.Name, Color: r.Color}
	if r.Weight != nil {
		w := r.Weight.Int()
		p.Weight = &w
	}
	return p
}

type topicRequest struct {
	Name       string `json:"name"`
	Difficulty string `json:"difficulty"`
}

type studyDaysRequest struct {
	Days []int `json:"days"`
}

type generateRequest struct {
	From string `json:"from"`
}

type alertRequest struct {
	Type    alerts.Type `json:"type"`
	Message string      `json:"message"`
}

func bind(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// parseDate reads a YYYY-MM-DD value. Empty input yields the zero time,
// which the service treats as today.
func (h *handler) parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(schedule.DateLayout, raw, h.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", errBadRequest, raw)
	}
	return t, nil
}

func (h *handler) snapshot(c *gin.Context) {
	snap, err := h.svc.Snapshot(c.Request.Context(), tenantOf(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, snap)
}

func (h *handler) listSubjects(c *gin.Context) {
	subjects, err := h.svc.Subjects(c.Request.Context(), tenantOf(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"subjects": subjects})
}

func (h *handler) addSubject(c *gin.Context) {
	var req subjectRequest
	if err := bind(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	subj, err := h.svc.AddSubject(c.Request.Context(), tenantOf(c), req.Name, req.Color, req.Weight.Int())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subj)
}

func (h *handler) updateSubject(c *gin.Context) {
	var req subjectPatchRequest
	if err := bind(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	subj, err := h.svc.UpdateSubject(c.Request.Context(), tenantOf(c), c.Param("id"), req.patch())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, subj)
}

func (h *handler) removeSubject(c *gin.Context) {
	if err := h.svc.RemoveSubject(c.Request.Context(), tenantOf(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) addTopic(c *gin.Context) {
	var req topicRequest
	if err := bind(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	d, err := syllabus.ParseDifficulty(req.Difficulty)
	if err != nil {
		h.respondError(c, err)
		return
	}
	topic, err := h.svc.AddTopic(c.Request.Context(), tenantOf(c), c.Param("id"), req.Name, d)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, topic)
}

func (h *handler) removeTopic(c *gin.Context) {
	if err := h.svc.RemoveTopic(c.Request.Context(), tenantOf(c), c.Param("id"), c.Param("topicID")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) completeTopic(c *gin.Context) {
	if err := h.svc.MarkTopicComplete(c.Request.Context(), tenantOf(c), c.Param("id"), c.Param("topicID")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) getSettings(c *gin.Context) {
	set, err := h.svc.Settings(c.Request.Context(), tenantOf(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, set)
}

func (h *handler) updateSettings(c *gin.Context) {
	var set store.Settings
	if err := bind(c, &set); err != nil {
		h.respondError(c, err)
		return
	}
	saved, err := h.svc.UpdateSettings(c.Request.Context(), tenantOf(c), set)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, saved)
}

func (h *handler) setStudyDays(c *gin.Context) {
	var req studyDaysRequest
	if err := bind(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	days, err := h.svc.SetStudyDays(c.Request.Context(), tenantOf(c), req.Days)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"studyDays": days})
}

func (h *handler) generate(c *gin.Context) {
	var req generateRequest
	if c.Request.ContentLength > 0 {
		if err := bind(c, &req); err != nil {
			h.respondError(c, err)
			return
		}
	}
	from, err := h.parseDate(req.From)
	if err != nil {
		h.respondError(c, err)
		return
	}
	blocks, err := h.svc.Regenerate(c.Request.Context(), tenantOf(c), from)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"blocks": blocks})
}

func (h *handler) listBlocks(c *gin.Context) {
	blocks, err := h.svc.Blocks(c.Request.Context(), tenantOf(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"blocks": blocks})
}

func (h *handler) completeBlock(c *gin.Context) {
	b, err := h.svc.Complete(c.Request.Context(), tenantOf(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, b)
}

func (h *handler) skipBlock(c *gin.Context) {
	b, err := h.svc.Skip(c.Request.Context(), tenantOf(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, b)
}

func (h *handler) removeBlock(c *gin.Context) {
	if err := h.svc.RemoveBlock(c.Request.Context(), tenantOf(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) today(c *gin.Context) {
	date, err := h.parseDate(c.Query("date"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	day, err := h.svc.Today(c.Request.Context(), tenantOf(c), date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, day)
}

func (h *handler) week(c *gin.Context) {
	date, err := h.parseDate(c.Query("date"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	w, err := h.svc.Week(c.Request.Context(), tenantOf(c), date)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, w)
}

func (h *handler) progress(c *gin.Context) {
	o, err := h.svc.Progress(c.Request.Context(), tenantOf(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, o)
}

func (h *handler) listAlerts(c *gin.Context) {
	list, err := h.svc.Alerts(c.Request.Context(), tenantOf(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"alerts": list, "unread": alerts.UnreadCount(list)})
}

func (h *handler) addAlert(c *gin.Context) {
	var req alertRequest
	if err := bind(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	a, err := h.svc.AddAlert(c.Request.Context(), tenantOf(c), req.Type, req.Message)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *handler) readAlert(c *gin.Context) {
	if err := h.svc.MarkAlertRead(c.Request.Context(), tenantOf(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// importSyllabus reads a syllabus document from the body. The format comes
// from ?format=, then the Content-Type, defaulting to JSON.
func (h *handler) importSyllabus(c *gin.Context) {
	format := syllabus.FormatJSON
	switch f := strings.ToLower(c.Query("format")); {
	case f == "yaml" || f == "yml":
		format = syllabus.FormatYAML
	case f == "" && strings.Contains(c.ContentType(), "yaml"):
		format = syllabus.FormatYAML
	}

	subjects, err := h.svc.ImportSyllabus(c.Request.Context(), tenantOf(c), c.Request.Body, format)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"subjects": subjects})
}
