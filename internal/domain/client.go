package domain

type Client struct {
	UUID             string `json:"uuid"`
	OrganizationUUID string `json:"organizationUuid"`
	Name             string `json:"name"`
}

type ClientAdAccount struct {
	ClientUUID  string `json:"clientUuid"`
	AdAccountID string `json:"adAccountId"`
}

type OrganizationToken struct {
	OrganizationUUID string `json:"organizationUuid"`
	Token            string `json:"-"`
}
