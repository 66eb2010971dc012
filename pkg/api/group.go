package api

type Participant struct {
	Id          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Group is a saved, named list of participants.
type Group struct {
	Id        string         `json:"id"`
	Name      string         `json:"name"`
	Members   []*Participant `json:"members"`
	CreatedAt int64          `json:"createdAt"`
}

type CreateGroupRequest struct {
	Name    string         `json:"name"`
	Members []*Participant `json:"members"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupId string `json:"groupId"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type UpdateGroupRequest struct {
	GroupId string         `json:"groupId"`
	Name    string         `json:"name"`
	Members []*Participant `json:"members"`
}

type UpdateGroupResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupId string `json:"groupId"`
}

type DeleteGroupResponse struct{}

type AddFriendRequest struct {
	Friend *Participant `json:"friend"`
}

type AddFriendResponse struct {
	Friend *Participant `json:"friend"`
}

type ListFriendsRequest struct{}

type ListFriendsResponse struct {
	Friends []*Participant `json:"friends"`
}

type RemoveFriendRequest struct {
	FriendId string `json:"friendId"`
}

type RemoveFriendResponse struct{}
