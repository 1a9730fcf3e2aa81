package internal

import (
	"context"
	"net/http"
	"net/url"
)

func rowsPath(databaseID, tableID string) string {
	return "/tablesdb/" + url.PathEscape(databaseID) + "/tables/" + url.PathEscape(tableID) + "/rows"
}

// ListRows returns the rows of tableID matching queries, applied in order
func (c *Client) ListRows(ctx context.Context, databaseID, tableID string, queries []Query) (*RowList, error) {
	params := url.Values{}
	for _, q := range EncodeQueries(queries) {
		params.Add("queries[]", q)
	}
	var list RowList
	if err := c.call(ctx, http.MethodGet, rowsPath(databaseID, tableID), params, nil, &list); err != nil {
		return nil, err
	}
	if list.Rows == nil {
		list.Rows = []Row{}
	}
	return &list, nil
}

// GetRow returns a single row by id
func (c *Client) GetRow(ctx context.Context, databaseID, tableID, rowID string) (Row, error) {
	var row Row
	if err := c.call(ctx, http.MethodGet, rowsPath(databaseID, tableID)+"/"+url.PathEscape(rowID), nil, nil, &row); err != nil {
		return nil, err
	}
	return row, nil
}
