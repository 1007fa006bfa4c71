package odoosync

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// previewRowLimit bounds the raw-order preview handed to the analytics view.
const previewRowLimit = 10

type reportRequestBody struct {
	Branch      string  `json:"branch" binding:"required"`
	FromDate    string  `json:"fromDate"`
	ToDate      string  `json:"toDate"`
	Preset      string  `json:"preset"`
	TerminalIds []int64 `json:"terminalIds"`
}

type terminalResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type previewOrderResponse struct {
	Date      string `json:"date"`
	Reference string `json:"reference"`
	Terminal  string `json:"terminal"`
	Customer  string `json:"customer"`
	Mobile    string `json:"mobile"`
	Amount    string `json:"amount"`
}

type customerSummaryResponse struct {
	CustomerId  int64  `json:"customerId"`
	Name        string `json:"name"`
	Mobile      string `json:"mobile"`
	Email       string `json:"email"`
	OrderCount  int    `json:"orderCount"`
	TotalAmount string `json:"totalAmount"`
	AvgAmount   string `json:"avgAmount"`
}

type dailySummaryResponse struct {
	Date          string `json:"date"`
	OrderCount    int    `json:"orderCount"`
	TotalRevenue  string `json:"totalRevenue"`
	AvgOrderValue string `json:"avgOrderValue"`
}

// BranchesHandler lists the supported branches for the picker.
func BranchesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"branches": BranchNames()})
	}
}

// TerminalsHandler resolves the terminals of one branch. Resolution
// failures are recoverable, so they answer with an actionable hint rather
// than a bare 500.
func TerminalsHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		branch := c.Query("branch")
		if branch == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "branch is required"})
			return
		}
		terminals, err := svc.Terminals(c.Request.Context(), branch)
		if err != nil {
			writeError(c, err)
			return
		}
		out := make([]terminalResponse, 0, len(terminals))
		for _, t := range terminals {
			out = append(out, terminalResponse{ID: t.ID, Name: t.Name})
		}
		resp := gin.H{"terminals": out}
		if len(out) == 0 {
			resp["message"] = "no POS terminals found for this branch — check the branch spelling"
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GenerateReportHandler runs the pipeline and streams the workbook as an
// attachment named {branch}_{from}_{to}.xlsx.
func GenerateReportHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindReportRequest(c)
		if !ok {
			return
		}
		result, err := svc.GenerateReport(c.Request.Context(), req, nil)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
		c.Data(http.StatusOK, workbookContentType, result.Workbook)
	}
}

// PreviewReportHandler runs the pipeline and returns the aggregate tables
// plus a first-rows order preview for the on-screen analytics view, without
// the workbook payload.
func PreviewReportHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindReportRequest(c)
		if !ok {
			return
		}
		result, err := svc.GenerateReport(c.Request.Context(), req, nil)
		if err != nil {
			writeError(c, err)
			return
		}

		preview := make([]previewOrderResponse, 0, previewRowLimit)
		for _, o := range result.Orders[:min(previewRowLimit, len(result.Orders))] {
			row := previewOrderResponse{
				Reference: o.Reference,
				Customer:  "Walk-in Customer",
				Amount:    o.Amount.StringFixed(2),
			}
			if t, err := o.OrderTime(); err == nil {
				row.Date = t.Format(dateLayout)
			}
			if o.CustomerID != nil {
				customer := result.Customers[*o.CustomerID]
				row.Customer = customer.Name
				row.Mobile = customer.Mobile
			}
			if o.TerminalID != nil {
				row.Terminal = result.TerminalsByID[*o.TerminalID].Name
			}
			preview = append(preview, row)
		}

		customers := make([]customerSummaryResponse, 0, len(result.CustomerSummaries))
		for _, s := range result.CustomerSummaries {
			customers = append(customers, customerSummaryResponse{
				CustomerId:  s.CustomerID,
				Name:        s.Name,
				Mobile:      s.Mobile,
				Email:       s.Email,
				OrderCount:  s.OrderCount,
				TotalAmount: s.TotalAmount.StringFixed(2),
				AvgAmount:   s.AverageAmount().StringFixed(2),
			})
		}
		daily := make([]dailySummaryResponse, 0, len(result.DailySummaries))
		for _, d := range result.DailySummaries {
			daily = append(daily, dailySummaryResponse{
				Date:          d.Date.Format(dateLayout),
				OrderCount:    d.OrderCount,
				TotalRevenue:  d.TotalAmount.StringFixed(2),
				AvgOrderValue: d.AverageOrderValue().StringFixed(2),
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"branch":            result.Branch,
			"filename":          result.Filename,
			"totals":            result.Totals,
			"customerSummaries": customers,
			"dailySummaries":    daily,
			"preview":           preview,
		})
	}
}

func bindReportRequest(c *gin.Context) (ReportRequest, bool) {
	var body reportRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return ReportRequest{}, false
	}

	var fromDate, toDate time.Time
	if body.Preset != "" {
		var err error
		fromDate, toDate, err = PresetRange(body.Preset, time.Now())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return ReportRequest{}, false
		}
	} else {
		var err error
		if fromDate, err = time.Parse(dateLayout, body.FromDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fromDate must be YYYY-MM-DD"})
			return ReportRequest{}, false
		}
		if toDate, err = time.Parse(dateLayout, body.ToDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "toDate must be YYYY-MM-DD"})
			return ReportRequest{}, false
		}
		toDate = toDate.Add(time.Hour*23 + time.Minute*59 + time.Second*59)
	}
	if toDate.Before(fromDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "toDate is before fromDate"})
		return ReportRequest{}, false
	}

	return ReportRequest{
		Branch:      body.Branch,
		FromDate:    fromDate,
		ToDate:      toDate,
		TerminalIDs: body.TerminalIds,
	}, true
}

// writeError maps pipeline failures onto the response: recoverable fetch
// errors answer 502 with a retry hint, render failures answer 500.
func writeError(c *gin.Context, err error) {
	var rec *RecoverableError
	if errors.As(err, &rec) {
		c.JSON(http.StatusBadGateway, gin.H{"error": rec.Error(), "hint": rec.Hint})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
