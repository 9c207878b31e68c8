// Package commands defines the nameplatectl CLI, an offline front end to the
// export engine.
//
// Commands
//
//   - render   Render an order file to a spreadsheet plus a PDF or HTML document
//   - summary  Print the notification summary of an order as JSON
//   - table    Print the spreadsheet rows of an order, or read back an exported workbook
//
// Every command reads the optional --config file the server uses; without it
// the built-in defaults apply.
package commands
