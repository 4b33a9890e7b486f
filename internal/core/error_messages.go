// Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Users can quote the code shown on the page to support staff.
//
// Error codes are grouped by category:
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL001 - Missing upload: One or both files were not uploaded
//	         Action: Please upload both CSV files to begin
//	         Patterns: "missing upload"
//
//	UPL002 - System busy: Too many uploads in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many uploads"
//
// # Column Errors (COL001-COL099)
//
//	COL001 - Tracking column not found: No tracking column in one or both files
//	         Action: Rename the tracking column to "Tracking #" or "Tracking ID"
//	         Patterns: "tracking column not found"
//
// # Normalization Errors (NORM001-NORM099)
//
//	NORM001 - Bad tracking number: Tracking values could not be repaired
//	          Action: Fix the listed rows and upload again
//	          Patterns: "cannot normalize tracking"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the upload size limit
//	          Action: Split the file into smaller chunks
//	          Patterns: "file too large", "request body too large"
//
//	FILE002 - Unreadable file: File is not a valid CSV or workbook
//	          Action: Ensure file is comma-separated with consistent columns
//	          Patterns: "invalid csv", "invalid xlsx"
//
//	FILE003 - Unsupported type: File extension is not .csv or .xlsx
//	          Action: Export the sheet as CSV and upload again
//	          Patterns: "unsupported file type"
//
//	FILE004 - No file: No file was selected
//	          Action: Please select a CSV file to upload
//	          Patterns: "no file provided"
//
//	FILE005 - Empty file: The uploaded file has no header row
//	          Action: Please upload a CSV file with a header and data rows
//	          Patterns: "empty file"
//
// # Workspace Errors (WS001-WS099)
//
//	WS001 - Workspace not found: The merged result expired or was deleted
//	        Action: Upload the files again
//	        Patterns: "workspace not found"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Invalid filter: A filter value was rejected
//	         Action: Shorten the filter text and try again
//	         Patterns: "invalid filter"
//
//	REQ002 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	REQ003 - Request timeout: Request timed out
//	         Action: Try a smaller file or check your connection
//	         Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones. Column and normalization patterns come first
// because their messages quote user data.
//
// # For Support Staff
//
// When a user reports an error code:
//  1. Look up the code in this reference
//  2. Check the associated patterns to understand what triggered it
//  3. Review the suggested action to guide the user
//  4. If ERR000, check application logs for the original technical error

package core

import "strings"

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
//
// To add a new error pattern:
//  1. Choose the appropriate category and code range
//  2. Add the pattern in the correct position (specific before general)
//  3. Update the reference at the top of this file
var errorPatterns = []errorPattern{
	// =========================================================================
	// Pipeline Errors (COL, NORM, UPL)
	// =========================================================================
	{
		pattern: "tracking column not found",
		msg: UserMessage{
			Message: "Could not find a tracking number column",
			Action:  `Rename the tracking column to "Tracking #" in the shipments file or "Tracking ID" in the invoice`,
			Code:    "COL001",
		},
	},
	{
		pattern: "cannot normalize tracking",
		msg: UserMessage{
			Message: "Some tracking numbers could not be read",
			Action:  "Fix the listed rows and upload again",
			Code:    "NORM001",
		},
	},
	{
		pattern: "missing upload",
		msg: UserMessage{
			Message: "Please upload both CSV files to begin.",
			Action:  "Choose a shipments file and a carrier invoice file",
			Code:    "UPL001",
		},
	},
	{
		pattern: "too many uploads",
		msg: UserMessage{
			Message: "System is busy processing other uploads",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE005)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the upload size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the upload size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure file is comma-separated with consistent columns",
			Code:    "FILE002",
		},
	},
	{
		pattern: "invalid xlsx",
		msg: UserMessage{
			Message: "File is not a valid Excel workbook",
			Action:  "Re-save the workbook as .xlsx or export it as CSV",
			Code:    "FILE002",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "This file type is not supported",
			Action:  "Export the sheet as CSV and upload again",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a CSV file with a header and data rows",
			Code:    "FILE005",
		},
	},

	// =========================================================================
	// Workspace and Request Errors (WS001, REQ001-REQ003)
	// =========================================================================
	{
		pattern: "workspace not found",
		msg: UserMessage{
			Message: "This merged result has expired",
			Action:  "Upload the files again",
			Code:    "WS001",
		},
	},
	{
		pattern: "invalid filter",
		msg: UserMessage{
			Message: "A filter value was rejected",
			Action:  "Shorten the filter text and try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "REQ003",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := errors.New("invalid csv: line 4 has 5 fields, header has 3")
//	msg := MapError(err)
//	// msg.Code == "FILE002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// IsUserFacing reports whether err maps to a specific message rather than
// the generic fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}
