// Package driver defines the browser session contract consumed by the page
// object layer, and provides a Playwright implementation of it.
//
// # Contracts
//
// The package is built around three concepts:
//
//  1. By: one locator strategy (id, name, css, xpath, class, tag, link,
//     partial-link) and its value
//  2. Handle: a resolved remote element, itself a search root for nested
//     lookups
//  3. Driver: a browser session exposing lookup, navigation, scripts,
//     screenshots and page source
//
// # Playwright
//
// Launch starts Playwright, opens a browser, a context and a page, and
// returns a *Playwright driver. Locator strategies are translated into
// Playwright selector engines, so xpath and link text work without any
// extra setup.
//
//	drv, err := driver.Launch(driver.LaunchOptions{Headless: true})
//	if err != nil {
//		return err
//	}
//	defer drv.Quit()
//
// Tests usually use the in-memory HTML driver from the drivertest package
// instead.
package driver
