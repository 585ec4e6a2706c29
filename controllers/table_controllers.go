package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tableside/services"
	"tableside/utils"
)

type TableController struct {
	Tables *services.TableService
}

func NewTableController(tables *services.TableService) *TableController {
	return &TableController{Tables: tables}
}

// CreateTable -> add a table. A duplicate number fails with a field-scoped
// validation error rather than a generic failure.
func (tc *TableController) CreateTable(c *gin.Context) {
	var params services.CreateTableParams
	if err := c.ShouldBindJSON(&params); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.CreateTable(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table %d created (capacity=%d)", table.Number, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Tables.ListTables()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

func (tc *TableController) GetTableByNumber(c *gin.Context) {
	number, err := parseIDParam(c, "number")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.GetTable(number)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTable -> update status/capacity/transport; with change_token set it
// also rotates the session token and revokes every bound guest credential.
func (tc *TableController) UpdateTable(c *gin.Context) {
	number, err := parseIDParam(c, "number")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var params services.UpdateTableParams
	if err := c.ShouldBindJSON(&params); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.UpdateTable(number, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if params.ChangeToken {
		utils.InfoLogger.Printf("Table %d session token rotated, guest credentials revoked", table.Number)
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

func (tc *TableController) DeleteTable(c *gin.Context) {
	number, err := parseIDParam(c, "number")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := tc.Tables.DeleteTable(number); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"number": number})
}
