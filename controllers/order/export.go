package orderControllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/Tedorikk/warung-hmsi-2/models"
)

// GET /orders/export (admin): the currently filtered order list as an
// Excel workbook.
func ExportOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := FiltersFromQuery(c)

		var orders []models.Order
		if err := ordersQuery(db, nil, f, true).Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build Excel file"})
			return
		}

		header := sheet.AddRow()
		for _, h := range []string{
			"ID", "Order Ref", "Customer", "Email", "Status",
			"Payment Status", "Payment Method", "Total", "Created At",
		} {
			header.AddCell().SetString(h)
		}

		for _, o := range orders {
			row := sheet.AddRow()
			row.AddCell().SetInt(int(o.ID))
			row.AddCell().SetString(o.OrderRef)
			name, email := "", ""
			if o.User != nil {
				name, email = o.User.Name, o.User.Email
			}
			row.AddCell().SetString(name)
			row.AddCell().SetString(email)
			row.AddCell().SetString(o.Status)
			row.AddCell().SetString(o.PaymentStatus)
			row.AddCell().SetString(o.PaymentMethod)
			row.AddCell().SetFloat(o.TotalAmount)
			row.AddCell().SetString(o.CreatedAt.Format(time.RFC3339))
		}

		filename := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("20060102_150405"))
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
		}
	}
}
