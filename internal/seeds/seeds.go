package seeds

func SeedAll() error {
	return SeedProducts()
}
