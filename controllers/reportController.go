package controllers

import (
	"errors"
	"io"
	"net/http"

	"greenguard-be/models"
	"greenguard-be/services"
	"greenguard-be/store"

	"github.com/gin-gonic/gin"
)

// maxImageBytes caps uploaded report photos at 8 MiB
const maxImageBytes = 8 << 20

// UploadImage stores a report photo in the user's draft and kicks off the
// debounced classification
func UploadImage(c *gin.Context) {
	initDeps()

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file"})
		return
	}
	defer file.Close()

	if header.Size > maxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image too large"})
		return
	}

	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image"})
		return
	}

	mediaType := header.Header.Get("Content-Type")
	if mediaType == "" {
		mediaType = "image/jpeg"
	}

	pipeline := pipelines.ForUser(userID.(string))
	pipeline.SelectImage(image, mediaType)

	c.JSON(http.StatusAccepted, gin.H{"message": "Image received, analysis scheduled"})
}

// GetDraft returns the current draft state: preview reference, analysis
// result (if any) and the reward estimate
func GetDraft(c *gin.Context) {
	initDeps()

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	c.JSON(http.StatusOK, pipelines.ForUser(userID.(string)).Draft())
}

type submitInput struct {
	Description string           `json:"description,omitempty"`
	WasteType   string           `json:"wasteType,omitempty"`
	Location    *models.Location `json:"location,omitempty"`
}

func (in submitInput) toSubmitInput() services.SubmitInput {
	return services.SubmitInput{
		Description: in.Description,
		ManualType:  models.WasteType(in.WasteType),
		Location:    in.Location,
	}
}

// submissionError maps pipeline errors onto HTTP responses
func submissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmptySubmission):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Submission requires an image or a description"})
	case errors.Is(err, services.ErrNoWasteDetected):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No significant waste was detected, or confidence is too low. Please try another image or pick the type manually."})
	case errors.Is(err, services.ErrNothingStaged):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No submission staged for confirmation"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// StageReport validates the draft and holds it for confirmation
func StageReport(c *gin.Context) {
	initDeps()

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input submitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := pipelines.ForUser(userID.(string)).Stage(input.toSubmitInput()); err != nil {
		submissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Submission staged, awaiting confirmation"})
}

// ConfirmReport materializes the staged submission as a Pending report and
// credits the reward
func ConfirmReport(c *gin.Context) {
	initDeps()

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	report, err := pipelines.ForUser(userID.(string)).Confirm()
	if err != nil {
		submissionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

// CancelReport discards the staged submission, keeping the draft
func CancelReport(c *gin.Context) {
	initDeps()

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	pipelines.ForUser(userID.(string)).Cancel()
	c.JSON(http.StatusOK, gin.H{"message": "Submission cancelled"})
}

// SubmitReport is the one-shot stage-and-confirm path
func SubmitReport(c *gin.Context) {
	initDeps()

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input submitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := pipelines.ForUser(userID.(string)).Submit(input.toSubmitInput())
	if err != nil {
		submissionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

// ResetDraft discards the in-progress draft entirely
func ResetDraft(c *gin.Context) {
	initDeps()

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	pipelines.ForUser(userID.(string)).Reset()
	c.JSON(http.StatusOK, gin.H{"message": "Draft discarded"})
}

// GetMyReports returns the authenticated user's reports, newest first
func GetMyReports(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	reports, err := store.Get().UserReports(userID.(string))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, reports)
}
