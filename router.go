package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/judyrop/storefront-admin/editor"
	"github.com/judyrop/storefront-admin/models"
)

const passwordHeader = "X-Admin-Password"

// AdminAuth lets a request through only when it carries the current admin password.
func AdminAuth(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !app.Settings.Authenticate(c.GetHeader(passwordHeader)) {
			app.Log.WithField("ip", c.ClientIP()).Warn("Rejected admin request with wrong password")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin password"})
			return
		}
		c.Next()
	}
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.WithFields(logrus.Fields{
			"status": c.Writer.Status(),
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"ip":     c.ClientIP(),
		}).Info("Request completed")
	}
}

// catalogProduct is a product as shown to customers, every option carrying its final price.
type catalogProduct struct {
	models.Product
	Options []models.PricedOption `json:"options,omitempty"`
}

func catalogProducts(products []models.Product) []catalogProduct {
	out := make([]catalogProduct, len(products))
	for i, p := range products {
		out[i] = catalogProduct{Product: p, Options: p.PricedOptions()}
	}
	return out
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func SetupRouter(app *App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(app.Log))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public storefront data
	r.GET("/catalog", func(c *gin.Context) {
		s := app.Store.Settings()
		c.JSON(http.StatusOK, gin.H{
			"products":       catalogProducts(app.Store.Products()),
			"categories":     app.Store.Categories(),
			"neighborhoods":  app.Store.Neighborhoods(),
			"whatsappNumber": s.WhatsAppNumber,
			"contactLink":    s.ContactLink(""),
		})
	})

	admin := r.Group("/admin", AdminAuth(app))

	admin.GET("/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"products":      app.Store.Products(),
			"categories":    app.Store.Categories(),
			"neighborhoods": app.Store.Neighborhoods(),
			"settings":      app.Store.Settings(),
			"settingsForm":  app.Settings.Form(),
			"editor":        app.Editor.State(),
		})
	})

	// Product editor
	admin.PATCH("/editor/draft", func(c *gin.Context) {
		var req struct {
			Name        *string          `json:"name"`
			Description *string          `json:"description"`
			Price       *decimal.Decimal `json:"price"`
			Category    *string          `json:"category"`
			Image       *string          `json:"image"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Name != nil {
			app.Editor.SetName(*req.Name)
		}
		if req.Description != nil {
			app.Editor.SetDescription(*req.Description)
		}
		if req.Price != nil {
			app.Editor.SetPrice(*req.Price)
		}
		if req.Category != nil {
			app.Editor.SetCategory(*req.Category)
		}
		if req.Image != nil {
			app.Editor.SetImage(*req.Image)
		}
		c.JSON(http.StatusOK, app.Editor.State())
	})

	admin.POST("/editor/options", func(c *gin.Context) {
		var req struct {
			Name  string           `json:"name"`
			Price *decimal.Decimal `json:"price"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := app.Editor.AddOption(req.Name, req.Price); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, app.Editor.State())
	})

	admin.DELETE("/editor/options/:index", func(c *gin.Context) {
		index, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid option index"})
			return
		}
		if err := app.Editor.RemoveOption(index); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, app.Editor.State())
	})

	admin.POST("/editor/edit/:id", func(c *gin.Context) {
		product, err := app.Store.Product(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if err := app.Editor.StartEdit(product); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, app.Editor.State())
	})

	admin.POST("/editor/cancel", func(c *gin.Context) {
		app.Editor.CancelEdit()
		c.JSON(http.StatusOK, app.Editor.State())
	})

	admin.POST("/editor/save", func(c *gin.Context) {
		status := http.StatusOK
		if app.Editor.Mode() == editor.Creating {
			status = http.StatusCreated
		}
		product, err := app.Editor.Save()
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(status, product)
	})

	admin.DELETE("/products/:id", func(c *gin.Context) {
		if err := app.Store.DeleteProduct(c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, app.Store.Products())
	})

	// Categories
	admin.POST("/categories", func(c *gin.Context) {
		var req struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		category, err := app.Store.AddCategory(req.Name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	})

	admin.PATCH("/categories/:id", func(c *gin.Context) {
		var req struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		category, err := app.Store.RenameCategory(c.Param("id"), req.Name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	})

	admin.DELETE("/categories/:id", func(c *gin.Context) {
		if err := app.Store.DeleteCategory(c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, app.Store.Categories())
	})

	// Delivery neighborhoods
	admin.POST("/neighborhoods", func(c *gin.Context) {
		var req struct {
			Name string          `json:"name"`
			Fee  decimal.Decimal `json:"fee"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		n, err := app.Store.AddNeighborhood(req.Name, req.Fee)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, n)
	})

	admin.DELETE("/neighborhoods/:id", func(c *gin.Context) {
		if err := app.Store.DeleteNeighborhood(c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, app.Store.Neighborhoods())
	})

	// Settings
	admin.PUT("/settings/contact", func(c *gin.Context) {
		var req struct {
			Value string `json:"value"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := app.Settings.UpdateContactNumber(req.Value); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, app.Store.Settings())
	})

	admin.PUT("/settings/password", func(c *gin.Context) {
		var req struct {
			Value string `json:"value"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := app.Settings.UpdatePassword(req.Value); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "password updated"})
	})

	// Exit drops every unsaved draft of this session.
	admin.POST("/session/exit", func(c *gin.Context) {
		app.Editor.CancelEdit()
		app.Settings.Reset()
		c.JSON(http.StatusOK, gin.H{"status": "session closed"})
	})

	return r
}
