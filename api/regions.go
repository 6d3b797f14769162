/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	model2 "github.com/chihoangvnn/regiond/api/model"
	"github.com/chihoangvnn/regiond/internal/apierror"
	"github.com/chihoangvnn/regiond/regions"
)

// GetRegionStats reports assignment counts and derived queue metrics for
// every region.
func (a Api) GetRegionStats(c *gin.Context) {
	stats, err := a.regiond.GetAssignmentStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get region assignment statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"stats":     stats,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// AssignRegion runs the placement heuristics for a single account and
// persists the result.
func (a Api) AssignRegion(c *gin.Context) {
	var req model2.AssignRegion
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if req.AccountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Account ID is required"})
		return
	}

	if err := req.ValidateAssignRegion(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	account, err := a.regiond.GetSocialAccount(c.Request.Context(), req.AccountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Social account not found"})
		return
	}

	assignment, err := a.regiond.AssignOptimalRegion(c.Request.Context(), account, req.ToOptions())
	if err != nil {
		var apiErr apierror.APIError
		if errors.As(err, &apiErr) && apiErr.Code == apierror.ErrBadRequest {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": apiErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to assign region"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"assignment": gin.H{
			"accountId":      req.AccountID,
			"accountName":    account.Name,
			"platform":       account.Platform,
			"assignedRegion": assignment.Region,
			"reason":         assignment.Reason,
			"alternatives":   assignment.Alternatives,
		},
		"assignedAt": time.Now().Format(time.RFC3339),
	})
}

// BulkAssignRegions assigns up to 100 accounts in one request. Failures are
// collected per account rather than aborting the batch.
func (a Api) BulkAssignRegions(c *gin.Context) {
	var req model2.BulkAssignRegions
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if len(req.AccountIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Account IDs array is required"})
		return
	}

	if len(req.AccountIDs) > model2.BulkAssignLimit {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Maximum 100 accounts can be assigned at once"})
		return
	}

	opts := req.Options.ToOptions()
	assignments := make([]gin.H, 0, len(req.AccountIDs))
	assignErrors := make([]string, 0)

	for _, accountID := range req.AccountIDs {
		account, err := a.regiond.GetSocialAccount(c.Request.Context(), accountID)
		if err != nil {
			assignErrors = append(assignErrors, fmt.Sprintf("Account %s: Not found", accountID))
			continue
		}

		assignment, err := a.regiond.AssignOptimalRegion(c.Request.Context(), account, opts)
		if err != nil {
			assignErrors = append(assignErrors, fmt.Sprintf("Account %s: %s", accountID, err.Error()))
			continue
		}

		assignments = append(assignments, gin.H{
			"accountId":      accountID,
			"accountName":    account.Name,
			"platform":       account.Platform,
			"assignedRegion": assignment.Region,
			"reason":         assignment.Reason,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     len(assignErrors) == 0,
		"assignments": assignments,
		"errors":      assignErrors,
		"summary": gin.H{
			"total":      len(req.AccountIDs),
			"successful": len(assignments),
			"failed":     len(assignErrors),
		},
		"completedAt": time.Now().Format(time.RFC3339),
	})
}

// RebalanceRegions runs a rebalance pass. dryRun defaults to true so a bare
// POST only reports what would move.
func (a Api) RebalanceRegions(c *gin.Context) {
	var req model2.RebalanceRegions
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := req.ValidateRebalanceRegions(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	dryRun := true
	if req.DryRun != nil {
		dryRun = *req.DryRun
	}

	result, err := a.regiond.RebalanceAssignments(c.Request.Context(), req.Platform, dryRun)
	if err != nil {
		var apiErr apierror.APIError
		if errors.As(err, &apiErr) && apiErr.Code == apierror.ErrConflict {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": apiErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to rebalance region assignments"})
		return
	}

	message := fmt.Sprintf("Found %d accounts that should be reassigned", len(result.Reassignments))
	if !dryRun {
		message = fmt.Sprintf("Successfully reassigned %d accounts", len(result.Reassignments))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"rebalancing": result,
		"message":     message,
		"completedAt": time.Now().Format(time.RFC3339),
	})
}

// GetAssignment returns the stored assignment for one account, or a null
// assignment when the account has none.
func (a Api) GetAssignment(c *gin.Context) {
	accountID, passed := c.Params.Get("accountId")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "accountId is required. pass accountId in the route /:accountId"})
		return
	}

	account, err := a.regiond.GetSocialAccount(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Social account not found"})
		return
	}

	assignment, err := a.regiond.GetAssignment(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get region assignment"})
		return
	}

	if assignment == nil {
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"assignment": nil,
			"message":    "No region assignment found for this account",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"assignment": gin.H{
			"accountId":      accountID,
			"accountName":    account.Name,
			"platform":       account.Platform,
			"assignedRegion": assignment.AssignedRegion,
			"reason":         assignment.Reason,
			"assignedAt":     assignment.AssignedAt,
		},
	})
}

// RemoveAssignment strips the assignment from an account's metadata and
// echoes back what was removed.
func (a Api) RemoveAssignment(c *gin.Context) {
	accountID, passed := c.Params.Get("accountId")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "accountId is required. pass accountId in the route /:accountId"})
		return
	}

	account, err := a.regiond.GetSocialAccount(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Social account not found"})
		return
	}

	removed, err := a.regiond.RemoveAccountRegion(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to remove region assignment"})
		return
	}

	previousRegion := ""
	previousReason := ""
	if removed != nil {
		previousRegion = removed.AssignedRegion
		previousReason = removed.Reason
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Region assignment removed successfully",
		"removedAssignment": gin.H{
			"accountId":      accountID,
			"accountName":    account.Name,
			"platform":       account.Platform,
			"previousRegion": previousRegion,
			"previousReason": previousReason,
			"removedAt":      time.Now().Format(time.RFC3339),
		},
	})
}

// GetAvailableRegions lists the catalog, optionally narrowed to one platform.
func (a Api) GetAvailableRegions(c *gin.Context) {
	platform := c.Query("platform")
	details := regions.Details(platform)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"regions": details,
		"total":   len(details),
	})
}
