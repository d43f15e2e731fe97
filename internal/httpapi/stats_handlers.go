package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderramin/rebound/internal/stats"
	"github.com/gin-gonic/gin"
)

// dateParam parses the YYYY-MM-DD query parameter name in the user's zone,
// defaulting to today.
func (a *api) dateParam(c *gin.Context, name string) (time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return a.Now().In(a.Location), nil
	}
	d, err := time.ParseInLocation("2006-01-02", v, a.Location)
	if err != nil {
		return time.Time{}, invalidInput(fmt.Sprintf("%s must be YYYY-MM-DD, got %q", name, v))
	}
	return d, nil
}

func (a *api) dailyStats(c *gin.Context) {
	date, err := a.dateParam(c, "date")
	if err != nil {
		a.writeError(c, err)
		return
	}
	out, err := a.Stats.Daily(c.Request.Context(), userID(c), date)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *api) weeklyStats(c *gin.Context) {
	out, err := a.Stats.Weekly(c.Request.Context(), userID(c))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *api) monthlyStats(c *gin.Context) {
	now := a.Now().In(a.Location)
	year, month := now.Year(), int(now.Month())
	if v := c.Query("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 9999 {
			a.writeError(c, invalidInput(fmt.Sprintf("year must be 1-9999, got %q", v)))
			return
		}
		year = n
	}
	if v := c.Query("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			a.writeError(c, invalidInput(fmt.Sprintf("month must be 1-12, got %q", v)))
			return
		}
		month = n
	}
	out, err := a.Stats.Monthly(c.Request.Context(), userID(c), year, time.Month(month))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *api) tagStats(c *gin.Context) {
	out, err := a.Stats.Tags(c.Request.Context(), userID(c))
	if err != nil {
		a.writeError(c, err)
		return
	}
	if out == nil {
		out = []stats.TagRollup{}
	}
	c.JSON(http.StatusOK, out)
}
