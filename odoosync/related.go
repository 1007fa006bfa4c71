package odoosync

import (
	"context"

	"github.com/prashantisarees/pos_reports_backend/config"
	"github.com/prashantisarees/pos_reports_backend/models"
	"github.com/prashantisarees/pos_reports_backend/utils"
	"github.com/sirupsen/logrus"
)

// FetchRelated resolves the customer and terminal records referenced by the
// order set. Reference ids are deduplicated before the reads, so each entity
// is fetched exactly once, in groups of batchSize. Ids that point at deleted
// records simply never appear in the returned maps; downstream lookups fall
// back to empty records, never fail.
func FetchRelated(ctx context.Context, rpc Caller, orders []models.Order, batchSize int) (map[int64]models.Customer, map[int64]models.Terminal, error) {
	var customerIDs, terminalIDs []int64
	for _, o := range orders {
		if o.CustomerID != nil {
			customerIDs = append(customerIDs, *o.CustomerID)
		}
		if o.TerminalID != nil {
			terminalIDs = append(terminalIDs, *o.TerminalID)
		}
	}
	customerIDs = utils.UniqueSlice(customerIDs)
	terminalIDs = utils.UniqueSlice(terminalIDs)

	customers := make(map[int64]models.Customer, len(customerIDs))
	terminals := make(map[int64]models.Terminal, len(terminalIDs))

	for _, batch := range utils.ChunkSlice(customerIDs, batchSize) {
		if err := ctx.Err(); err != nil {
			return customers, terminals, err
		}
		reply, err := rpc.ExecuteKw(ctx, "res.partner", "read",
			[]interface{}{batch},
			map[string]interface{}{"fields": []string{"name", "mobile", "email"}})
		if err != nil {
			config.LogError(config.GetLogger(), "odoosync", "FetchRelated", "reading customers", len(batch), err)
			return customers, terminals, recoverable("reading customer records", "the POS backend may be busy; retry the report", err)
		}
		for _, rec := range asRecordList(reply) {
			c := decodeCustomer(rec)
			c.Mobile = utils.FormatMobileNumber(c.Mobile)
			if c.Mobile != "" {
				if err := utils.ValidatePhoneNumber(c.Mobile, utils.CountryCode); err != nil {
					config.GetLogger().WithFields(logrus.Fields{
						"customerId": c.ID,
					}).Debug("customer mobile did not validate after normalization")
				}
			}
			if c.Email != "" && !utils.IsValidEmail(c.Email) {
				config.GetLogger().WithFields(logrus.Fields{
					"customerId": c.ID,
				}).Debug("customer email is malformed")
			}
			customers[c.ID] = c
		}
	}

	for _, batch := range utils.ChunkSlice(terminalIDs, batchSize) {
		if err := ctx.Err(); err != nil {
			return customers, terminals, err
		}
		reply, err := rpc.ExecuteKw(ctx, "pos.config", "read",
			[]interface{}{batch},
			map[string]interface{}{"fields": []string{"name"}})
		if err != nil {
			config.LogError(config.GetLogger(), "odoosync", "FetchRelated", "reading terminals", len(batch), err)
			return customers, terminals, recoverable("reading terminal records", "the POS backend may be busy; retry the report", err)
		}
		for _, rec := range asRecordList(reply) {
			t := decodeTerminal(rec)
			terminals[t.ID] = t
		}
	}

	return customers, terminals, nil
}
