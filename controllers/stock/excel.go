package stockControllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/controllers"
	"github.com/junaidrashid-git/storefront-api/services/inventory"
)

// GET /api/v1/stock/export-excel
func ExportStockToExcel(ledger *inventory.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := ledger.All(c.Request.Context())
		if err != nil {
			controllers.Error(c, err)
			return
		}

		// Render first so a failure can still be reported as JSON.
		var buf bytes.Buffer
		if err := inventory.WriteXLSX(&buf, views); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=stock.xlsx")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	}
}

// POST /api/v1/stock/import-excel
//
// The upload carries (stock id, quantity) rows under a header row; every
// row is added to its stock in one transaction.
func ImportStockFromExcel(ledger *inventory.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		topUps, err := inventory.ParseTopUps(file, header.Size)
		if err != nil {
			controllers.Error(c, err)
			return
		}

		applied, err := ledger.ApplyTopUps(c.Request.Context(), topUps)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Stock import complete", "updated": applied})
	}
}
