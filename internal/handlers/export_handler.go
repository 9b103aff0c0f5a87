package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

// ExportHandler produces XLSX snapshots of a store's catalog for back-office
// use.
type ExportHandler struct {
	repo   *repository.ProductsRepository
	logger *logrus.Entry
}

func NewExportHandler(repo *repository.ProductsRepository, logger *logrus.Logger) *ExportHandler {
	return &ExportHandler{
		repo:   repo,
		logger: logger.WithField("component", "handlers.export"),
	}
}

var exportHeader = []string{
	"Name", "Slug", "Category", "Brand", "Active",
	"Min Price", "Max Price", "Rating", "Reviews", "Views",
}

// ExportProducts streams the store's full product list as an XLSX workbook
// @Summary Export products
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param storeId path string true "Store ID"
// @Success 200
// @Router /stores/{storeId}/export/products [get]
func (h *ExportHandler) ExportProducts(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}

	q := &models.ListProductsQuery{Page: 1, Limit: 10000}
	products, _, err := h.repo.ListProducts(c.Request.Context(), storeID, q, false)
	if err != nil {
		respondRepoError(c, err)
		return
	}

	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Products"
	file.SetSheetName(file.GetSheetName(0), sheet)

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		file.SetCellValue(sheet, cell, title)
	}

	for i, product := range products {
		row := i + 2
		category := ""
		if product.Category != nil {
			category = product.Category.Name
		}
		brand := ""
		if product.Brand != nil {
			brand = product.Brand.Name
		}
		values := []interface{}{
			product.Name, product.Slug, category, brand, product.IsActive,
			product.MinPrice.InexactFloat64(), product.MaxPrice.InexactFloat64(),
			product.RatingAvg.InexactFloat64(), product.RatingCount, product.Views,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			file.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("products-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := file.Write(c.Writer); err != nil {
		h.logger.WithError(err).Error("Failed to write export workbook")
	}
}
