package handlers

import (
	"github.com/gofiber/fiber/v2"

	"nameplate/internal/infra/chrome"
)

// ChromeStats exposes the browser pool state. A nil printer reports a disabled pool.
func ChromeStats(p *chrome.Printer, poolSizeConf, timeoutSecs int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if p == nil {
			return c.JSON(chrome.Stats{PoolSizeConf: poolSizeConf, TimeoutSecs: timeoutSecs})
		}
		s, err := p.Stats()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Chrome pool init failed: "+err.Error())
		}
		return c.JSON(s)
	}
}
