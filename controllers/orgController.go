package controllers

import (
	"errors"
	"net/http"

	"greenguard-be/models"
	"greenguard-be/services"
	"greenguard-be/store"

	"github.com/gin-gonic/gin"
)

// GetAllReports returns every report across users for the organization
// review feed, newest first
func GetAllReports(c *gin.Context) {
	reports := store.Get().AllReports()
	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
		"total":   len(reports),
	})
}

// AnalyzeReport re-runs classification on a report's stored image. The
// result is advisory; the report itself is not modified.
func AnalyzeReport(c *gin.Context) {
	initDeps()

	result, err := verifier.Analyze(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Classification unavailable"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// verificationError maps workflow errors onto HTTP responses
func verificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrReportNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Report is already resolved"})
	case errors.Is(err, services.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Verification token does not resolve to an actionable report"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}

// AcceptReport resolves a pending report as accepted
func AcceptReport(c *gin.Context) {
	initDeps()

	report, err := verifier.Accept(c.Param("id"))
	if err != nil {
		verificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// RejectReport resolves a pending report as rejected
func RejectReport(c *gin.Context) {
	initDeps()

	report, err := verifier.Reject(c.Param("id"))
	if err != nil {
		verificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetReportToken returns the opaque field-confirmation token for a report
func GetReportToken(c *gin.Context) {
	initDeps()

	id := c.Param("id")
	if _, err := store.Get().GetReport(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": verifier.IssueVerificationToken(id)})
}

// GetReportQR renders the field-confirmation token as a PNG QR code
func GetReportQR(c *gin.Context) {
	initDeps()

	id := c.Param("id")
	if _, err := store.Get().GetReport(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	png, err := verifier.TokenQR(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// ConfirmToken applies a scanned field-confirmation token, advancing the
// report one step toward Cleaned
func ConfirmToken(c *gin.Context) {
	initDeps()

	var input struct {
		Token string `json:"token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := verifier.ConfirmVerificationToken(input.Token)
	if err != nil {
		verificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
