package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tonalworks/voicelead-api/internal/theory"
	"github.com/tonalworks/voicelead-api/internal/tonnetz"
)

// parseTriad reads a triad query parameter like "C", "Cm", "F#m".
func parseTriad(symbol string) (tonnetz.Triad, bool) {
	symbol = strings.TrimSpace(symbol)
	quality := tonnetz.Major
	if strings.HasSuffix(symbol, "m") && !strings.HasSuffix(symbol, "maj") {
		quality = tonnetz.Minor
		symbol = symbol[:len(symbol)-1]
	}
	root, err := theory.ParsePitchClass(symbol)
	if err != nil {
		return tonnetz.Triad{}, false
	}
	return tonnetz.Triad{Root: root, Quality: quality}, true
}

func triadParam(c *gin.Context, name string) (tonnetz.Triad, bool) {
	t, ok := parseTriad(c.Query(name))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "parse_input",
			"detail": "invalid triad parameter " + name + ": want e.g. C, Cm, F#m",
		})
	}
	return t, ok
}

// TonnetzNeighbors handles GET /api/v1/tonnetz/neighbors?triad=C.
func TonnetzNeighbors(c *gin.Context) {
	triad, ok := triadParam(c, "triad")
	if !ok {
		return
	}

	n := tonnetz.Neighbors(triad)
	c.JSON(http.StatusOK, gin.H{
		"triad": triad.String(),
		"neighbors": gin.H{
			"P": n[0].String(),
			"L": n[1].String(),
			"R": n[2].String(),
		},
		"hexatonic_pole": tonnetz.HexatonicPole(triad).String(),
	})
}

// TonnetzDistance handles GET /api/v1/tonnetz/distance?from=C&to=Am.
func TonnetzDistance(c *gin.Context) {
	from, ok := triadParam(c, "from")
	if !ok {
		return
	}
	to, ok := triadParam(c, "to")
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from":     from.String(),
		"to":       to.String(),
		"distance": tonnetz.Distance(from, to),
	})
}

// TonnetzPath handles GET /api/v1/tonnetz/path?from=C&to=Am.
func TonnetzPath(c *gin.Context) {
	from, ok := triadParam(c, "from")
	if !ok {
		return
	}
	to, ok := triadParam(c, "to")
	if !ok {
		return
	}

	path := tonnetz.Path(from, to)
	steps := make([]gin.H, len(path))
	for i, s := range path {
		steps[i] = gin.H{"op": s.Op.String(), "triad": s.Triad.String()}
	}
	c.JSON(http.StatusOK, gin.H{
		"from":     from.String(),
		"to":       to.String(),
		"distance": len(path),
		"path":     steps,
	})
}
