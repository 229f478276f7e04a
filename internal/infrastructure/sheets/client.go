// Package sheets implements the spreadsheet gateway against the Google
// Sheets and Drive APIs.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// sheetRange addresses the single worksheet the sync reads and writes
const sheetRange = "Sheet1"

// Client talks to Google Sheets and Drive with service-account
// credentials. It implements the sync service's SheetGateway.
type Client struct {
	sheets *sheets.Service
	drive  *drive.Service
	logger *zap.Logger
}

// NewClient creates a client from a service-account credentials file
func NewClient(ctx context.Context, credentialsPath string, logger *zap.Logger) (*Client, error) {
	credentials, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheets credentials: %w", err)
	}

	sheetsService, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentials),
		option.WithScopes(sheets.SpreadsheetsScope, drive.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	driveService, err := drive.NewService(ctx,
		option.WithCredentialsJSON(credentials),
		option.WithScopes(drive.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &Client{sheets: sheetsService, drive: driveService, logger: logger}, nil
}

// EnsureSpreadsheet returns existingID when that spreadsheet is still
// reachable, otherwise creates a fresh one titled after the template.
func (c *Client) EnsureSpreadsheet(ctx context.Context, title, existingID string) (string, error) {
	if existingID != "" {
		_, err := c.sheets.Spreadsheets.Get(existingID).Context(ctx).Do()
		if err == nil {
			return existingID, nil
		}
		if !isNotFound(err) {
			return "", fmt.Errorf("failed to check spreadsheet %s: %w", existingID, err)
		}
		c.logger.Warn("linked spreadsheet is gone, creating a new one",
			zap.String("spreadsheet_id", existingID))
	}

	created, err := c.sheets.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	c.logger.Info("spreadsheet created",
		zap.String("title", title),
		zap.String("spreadsheet_id", created.SpreadsheetId))
	return created.SpreadsheetId, nil
}

// Replace clears the worksheet and writes the grid from A1
func (c *Client) Replace(ctx context.Context, spreadsheetID string, grid [][]string) error {
	_, err := c.sheets.Spreadsheets.Values.
		Clear(spreadsheetID, sheetRange, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear spreadsheet: %w", err)
	}

	values := make([][]interface{}, len(grid))
	for i, row := range grid {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}

	_, err = c.sheets.Spreadsheets.Values.
		Update(spreadsheetID, sheetRange+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}

// Read returns the worksheet's populated cells as strings
func (c *Client) Read(ctx context.Context, spreadsheetID string) ([][]string, error) {
	resp, err := c.sheets.Spreadsheets.Values.
		Get(spreadsheetID, sheetRange).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	grid := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprint(cell)
		}
		grid[i] = cells
	}
	return grid, nil
}

// Share grants the given accounts write access without notification mail
func (c *Client) Share(ctx context.Context, spreadsheetID string, emails []string) error {
	for _, email := range emails {
		_, err := c.drive.Permissions.Create(spreadsheetID, &drive.Permission{
			Type:         "user",
			Role:         "writer",
			EmailAddress: email,
		}).SendNotificationEmail(false).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to share spreadsheet with %s: %w", email, err)
		}
	}
	return nil
}

// isNotFound reports whether the API error means the resource is gone
func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 404 || apiErr.Code == 403
	}
	return false
}
