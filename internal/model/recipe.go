package model

import "time"

// Recipe is a published recipe. Times are minutes.
type Recipe struct {
	ID              int64     `json:"id_recipe" db:"id_recipe"`
	Name            string    `json:"name_recipe" db:"name_recipe"`
	Description     string    `json:"description_recipe" db:"description_recipe"`
	PreparationTime int       `json:"preparation_time_recipe" db:"preparation_time_recipe"`
	CookingTime     int       `json:"cooking_time_recipe" db:"cooking_time_recipe"`
	RestingTime     int       `json:"resting_time_recipe" db:"resting_time_recipe"`
	Instructions    string    `json:"instructions_recipe" db:"instructions_recipe"`
	Picture         string    `json:"picture_recipe" db:"picture_recipe"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Review is a comment and/or note left on a recipe. Comment and note are
// both nullable; at least one must be present at creation time.
type Review struct {
	ID       int64     `json:"id_review" db:"id_review"`
	UserID   int64     `json:"fk_id_user" db:"fk_id_user"`
	RecipeID int64     `json:"fk_id_recipe" db:"fk_id_recipe"`
	Comment  *string   `json:"comment_review" db:"comment_review"`
	Note     *int      `json:"note_review" db:"note_review"`
	Date     time.Time `json:"date_review" db:"date_review"`
}
