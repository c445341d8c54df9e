// Package xlsxtemplate builds the spreadsheet template offered before an
// import: one sheet whose first row holds the column titles and whose second
// row holds an explanatory note.
package xlsxtemplate
