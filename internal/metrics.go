package internal

import "expvar"

var (
	deliveriesTotal = expvar.NewMap("webhookrepo_deliveries_total")
	recordsStored   = expvar.NewInt("webhookrepo_records_stored_total")
	ignoredTotal    = expvar.NewInt("webhookrepo_ignored_total")
	storeErrors     = expvar.NewInt("webhookrepo_store_errors_total")
)

func IncDelivery(event string) {
	if event == "" {
		event = "unknown"
	}
	deliveriesTotal.Add(event, 1)
}

func IncStored() {
	recordsStored.Add(1)
}

func IncIgnored() {
	ignoredTotal.Add(1)
}

func IncStoreError() {
	storeErrors.Add(1)
}
