package category

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=128"`
}

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
	CanManage  bool               `json:"can_manage"`
}
