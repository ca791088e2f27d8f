package store

func seedAuthors() []Author {
	return []Author{
		{ID: 1, Name: "J.K. Rowling"},
		{ID: 2, Name: "Bathilda Bagshot"},
		{ID: 3, Name: "Gilderoy Lockhart"},
	}
}

func seedBooks() []Book {
	return []Book{
		{ID: 1, Name: "Harry Potter and the Sorcerer's Stone", AuthorID: 1},
		{ID: 2, Name: "Harry Potter and the Chamber of Secrets", AuthorID: 2},
		{ID: 3, Name: "Harry Potter and the Prisoner of Azkaban", AuthorID: 3},
		{ID: 4, Name: "Harry Potter and the Goblet of Fire", AuthorID: 1},
		{ID: 5, Name: "Harry Potter and the Order of the Phoenix", AuthorID: 2},
		{ID: 6, Name: "Harry Potter and the Half-Blood Prince", AuthorID: 3},
		{ID: 7, Name: "Harry Potter and the Deathly Hallows", AuthorID: 1},
		{ID: 8, Name: "Fantastic Beasts and Where to Find Them", AuthorID: 2},
		{ID: 9, Name: "Quidditch Through the Ages", AuthorID: 3},
		{ID: 10, Name: "The Tales of Beedle the Bard", AuthorID: 1},
	}
}
