package model

// Group is a run of records sharing one product line.
type Group struct {
	ProductLine string
	Models      []ModelRecord
}

// GroupByProductLine groups records by product line.
//
// Groups appear in the order their product line is first seen in rs, not
// alphabetically; records keep their relative order inside each group.
func GroupByProductLine(rs ResultSet) []Group {
	if len(rs) == 0 {
		return nil
	}

	index := make(map[string]int)
	var groups []Group
	for _, m := range rs {
		i, ok := index[m.ProductLine]
		if !ok {
			i = len(groups)
			index[m.ProductLine] = i
			groups = append(groups, Group{ProductLine: m.ProductLine})
		}
		groups[i].Models = append(groups[i].Models, m)
	}
	return groups
}
