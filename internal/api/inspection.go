package api

import (
	"context"

	"go.uber.org/zap"
)

// InspectionSection 单个区域的检验结论
type InspectionSection struct {
	Zone          string `json:"zone"`
	Answer        string `json:"answer"`
	PhotoAttached bool   `json:"photo_attached"`
}

// InspectionReport 整机检验报告
type InspectionReport struct {
	SerialNumber string              `json:"sn"`
	HasIssues    bool                `json:"hasIssues"`
	Sections     []InspectionSection `json:"sections"`
}

// SubmitInspection 提交质检结论
func (c *Client) SubmitInspection(ctx context.Context, report *InspectionReport) error {
	r, err := c.guarded(ctx)
	if err != nil {
		return err
	}
	resp, err := r.SetBody(report).Post("/otk/")
	if err := c.check(resp, err); err != nil {
		return err
	}
	c.logger.Info("inspection submitted",
		zap.String("sn", report.SerialNumber),
		zap.Bool("has_issues", report.HasIssues),
	)
	return nil
}
